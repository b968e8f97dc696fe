package pools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/web3-frozen/smartchef-pools/internal/metrics"
)

// Aggregator joins the pool registry, staked balances and token prices into
// APR-annotated pools. It holds no per-request state and is safe for
// concurrent use.
type Aggregator struct {
	registry Registry
	balances BalanceReader
	prices   PriceSource
	logger   *slog.Logger
}

func NewAggregator(registry Registry, balances BalanceReader, prices PriceSource, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		registry: registry,
		balances: balances,
		prices:   prices,
		logger:   logger,
	}
}

// ActivePools returns the pools active at the current block, in registry
// order. Registry and balance failures fail the call; a price failure only
// leaves the affected APRs null.
func (a *Aggregator) ActivePools(ctx context.Context) ([]EnrichedPool, error) {
	block, err := a.balances.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}

	pools, err := a.registry.ActivePools(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("active pools at %d: %w", block, err)
	}
	if len(pools) == 0 {
		return []EnrichedPool{}, nil
	}

	tokens := UniqueTokens(pools)

	var (
		balances []*big.Int
		prices   Prices
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := a.balances.StakedBalances(gctx, pools)
		if err != nil {
			return fmt.Errorf("staked balances: %w", err)
		}
		balances = b
		return nil
	})
	g.Go(func() error {
		p, err := a.prices.Prices(gctx, tokens)
		if err != nil {
			a.logger.Warn("price lookup failed", "source", a.prices.Name(), "tokens", len(tokens), "error", err)
			return nil
		}
		prices = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(balances) != len(pools) {
		return nil, fmt.Errorf("staked balances: got %d for %d pools", len(balances), len(pools))
	}

	out := make([]EnrichedPool, len(pools))
	for i, p := range pools {
		out[i] = a.enrich(p, balances[i], prices)
	}
	a.logger.Info("active pools", "block", block, "pools", len(out), "tokens", len(tokens))
	return out, nil
}

func (a *Aggregator) enrich(p Pool, balance *big.Int, prices Prices) EnrichedPool {
	e := EnrichedPool{Pool: p}
	if v, ok := prices.Lookup(p.StakeToken.ID); ok {
		e.StakeTokenPrice = &v
	}
	if v, ok := prices.Lookup(p.EarnToken.ID); ok {
		e.EarnTokenPrice = &v
	}

	decimals, err := p.StakeToken.DecimalPlaces()
	if err != nil {
		a.logger.Warn("invalid stake token decimals", "pool", p.ID, "error", err)
	} else {
		e.TotalStaked = FormatUnits(balance, decimals)
	}

	apr, reason := a.apr(e)
	if reason != "" {
		metrics.APRUnavailableTotal.WithLabelValues(reason).Inc()
	}
	e.APR = apr
	return e
}

// apr returns nil with a reason label when the pool's APR cannot be computed.
func (a *Aggregator) apr(e EnrichedPool) (*decimal.Decimal, string) {
	if e.StakeTokenPrice == nil || e.EarnTokenPrice == nil {
		return nil, "price"
	}
	if e.TotalStaked == "" {
		return nil, "staked"
	}
	staked, err := decimal.NewFromString(e.TotalStaked)
	if err != nil {
		a.logger.Warn("unparsable total staked", "pool", e.ID, "total_staked", e.TotalStaked, "error", err)
		return nil, "staked"
	}
	reward, err := decimal.NewFromString(e.Reward)
	if err != nil {
		a.logger.Warn("unparsable reward per block", "pool", e.ID, "reward", e.Reward, "error", err)
		return nil, "reward"
	}

	v, err := PoolAPR(*e.StakeTokenPrice, *e.EarnTokenPrice, staked, reward)
	if errors.Is(err, ErrZeroStakedValue) {
		return nil, "zero_stake"
	}
	if err != nil {
		a.logger.Warn("apr computation failed", "pool", e.ID, "error", err)
		return nil, "arithmetic"
	}
	return &v, ""
}
