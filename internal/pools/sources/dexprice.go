package sources

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/web3-frozen/smartchef-pools/internal/metrics"
	"github.com/web3-frozen/smartchef-pools/internal/multicall"
	"github.com/web3-frozen/smartchef-pools/internal/pools"
)

// PancakeSwap V2 on BSC.
const (
	DefaultRouterAddress = "0x10ED43C718714eb63d5aA57B78B54704E256024E"
	BUSDAddress          = "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56"
	WBNBAddress          = "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"
)

const routerABI = `[{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"}]`

var (
	router = mustParseABI(routerABI)

	// 1 BUSD, 18 decimals.
	quoteAmount = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

const significantDigits = 6

// DEXPrice prices tokens on-chain by quoting 1 BUSD into each token through
// the router, directly and via WBNB, keeping the better route. All quotes go
// out in a single multicall.
type DEXPrice struct {
	multicall Aggregator
	router    common.Address
	busd      common.Address
	wbnb      common.Address
	logger    *slog.Logger
}

func NewDEXPrice(mc Aggregator, routerAddr common.Address, logger *slog.Logger) *DEXPrice {
	return &DEXPrice{
		multicall: mc,
		router:    routerAddr,
		busd:      common.HexToAddress(BUSDAddress),
		wbnb:      common.HexToAddress(WBNBAddress),
		logger:    logger,
	}
}

func (p *DEXPrice) Name() string { return "dex" }

// Prices returns BUSD prices for every routable token. Unroutable tokens are
// omitted.
func (p *DEXPrice) Prices(ctx context.Context, tokens []pools.Token) (_ pools.Prices, err error) {
	out := make(pools.Prices, len(tokens))

	var (
		calls []multicall.Call
		owner []int
	)
	for i, t := range tokens {
		if !common.IsHexAddress(t.ID) {
			p.logger.Warn("skipping token with invalid address", "token", t.ID)
			continue
		}
		addr := common.HexToAddress(t.ID)
		if addr == p.busd {
			out[t.Key()] = decimal.NewFromInt(1)
			continue
		}

		paths := [][]common.Address{{p.busd, addr}}
		if addr != p.wbnb {
			paths = append(paths, []common.Address{p.busd, p.wbnb, addr})
		}
		for _, path := range paths {
			data, err := router.Pack("getAmountsOut", quoteAmount, path)
			if err != nil {
				return nil, fmt.Errorf("pack getAmountsOut: %w", err)
			}
			calls = append(calls, multicall.Call{Target: p.router, CallData: data})
			owner = append(owner, i)
		}
	}
	if len(calls) == 0 {
		return out, nil
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("price_dex", time.Since(start).Seconds(), err) }()

	results, err := p.multicall.TryAggregate(ctx, false, calls)
	if err != nil {
		return nil, fmt.Errorf("dex quotes: %w", err)
	}
	if len(results) != len(calls) {
		return nil, fmt.Errorf("dex quotes: %w", multicall.ErrResultCount)
	}

	best := make(map[int]*big.Int)
	for j, r := range results {
		if !r.Success {
			continue
		}
		vals, err := router.Unpack("getAmountsOut", r.ReturnData)
		if err != nil {
			p.logger.Warn("undecodable quote", "token", tokens[owner[j]].ID, "error", err)
			continue
		}
		amounts, ok := vals[0].([]*big.Int)
		if !ok || len(amounts) == 0 {
			continue
		}
		received := amounts[len(amounts)-1]
		if cur, ok := best[owner[j]]; !ok || received.Cmp(cur) > 0 {
			best[owner[j]] = received
		}
	}

	for i, received := range best {
		if received.Sign() <= 0 {
			continue
		}
		t := tokens[i]
		decimals, err := t.DecimalPlaces()
		if err != nil {
			p.logger.Warn("skipping token with invalid decimals", "token", t.ID, "error", err)
			continue
		}
		units := decimal.NewFromBigInt(received, -decimals)
		price := decimal.NewFromInt(1).DivRound(units, 18)
		out[t.Key()] = significant(price, significantDigits)
	}
	return out, nil
}

// significant rounds d half-up to n significant digits.
func significant(d decimal.Decimal, n int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	c := d.Coefficient()
	magnitude := int32(len(c.Abs(c).String())) + d.Exponent()
	return d.Round(n - magnitude)
}
