package sources

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/web3-frozen/smartchef-pools/internal/metrics"
	"github.com/web3-frozen/smartchef-pools/internal/multicall"
	"github.com/web3-frozen/smartchef-pools/internal/pools"
)

const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"}]`

var erc20 = mustParseABI(erc20ABI)

// Aggregator batches contract calls. *multicall.Client satisfies it.
type Aggregator interface {
	TryAggregate(ctx context.Context, requireSuccess bool, calls []multicall.Call) ([]multicall.Result, error)
}

// ChainReader reports the current block height. *ethclient.Client satisfies it.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Balances reads each pool's stake-token balance in one multicall round trip.
type Balances struct {
	chain     ChainReader
	multicall Aggregator
}

func NewBalances(chain ChainReader, mc Aggregator) *Balances {
	return &Balances{chain: chain, multicall: mc}
}

func (b *Balances) BlockNumber(ctx context.Context) (_ uint64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("rpc", time.Since(start).Seconds(), err) }()

	n, err := b.chain.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("rpc block number: %w", err)
	}
	return n, nil
}

// StakedBalances calls stakeToken.balanceOf(pool) for every pool. Any failed
// call fails the whole batch.
func (b *Balances) StakedBalances(ctx context.Context, ps []pools.Pool) (_ []*big.Int, err error) {
	calls := make([]multicall.Call, len(ps))
	for i, p := range ps {
		if !common.IsHexAddress(p.StakeToken.ID) || !common.IsHexAddress(p.ID) {
			return nil, fmt.Errorf("pool %s: invalid stake token %q or pool address", p.ID, p.StakeToken.ID)
		}
		data, err := erc20.Pack("balanceOf", common.HexToAddress(p.ID))
		if err != nil {
			return nil, fmt.Errorf("pack balanceOf: %w", err)
		}
		calls[i] = multicall.Call{Target: common.HexToAddress(p.StakeToken.ID), CallData: data}
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("multicall", time.Since(start).Seconds(), err) }()

	results, err := b.multicall.TryAggregate(ctx, true, calls)
	if err != nil {
		return nil, fmt.Errorf("balanceOf batch: %w", err)
	}
	if len(results) != len(ps) {
		return nil, fmt.Errorf("balanceOf batch: %w", multicall.ErrResultCount)
	}

	out := make([]*big.Int, len(results))
	for i, r := range results {
		if !r.Success {
			return nil, fmt.Errorf("balanceOf pool %s: call failed", ps[i].ID)
		}
		vals, err := erc20.Unpack("balanceOf", r.ReturnData)
		if err != nil {
			return nil, fmt.Errorf("unpack balanceOf pool %s: %w", ps[i].ID, err)
		}
		out[i] = vals[0].(*big.Int)
	}
	return out, nil
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
