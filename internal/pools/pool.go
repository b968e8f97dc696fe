package pools

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Token is a pool's stake or earn token as indexed by the subgraph.
type Token struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals string `json:"decimals"`
}

// Key is the identity used to deduplicate tokens and join prices.
func (t Token) Key() string { return strings.ToLower(t.ID) }

// DecimalPlaces parses the token's decimal precision.
func (t Token) DecimalPlaces() (int32, error) {
	d, err := strconv.ParseInt(t.Decimals, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("token %s decimals %q: %w", t.ID, t.Decimals, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("token %s decimals %d: negative", t.ID, d)
	}
	return int32(d), nil
}

// Pool is an active SmartChef staking pool. Start/end blocks bound the pool's
// lifetime: it is active while startBlock < current <= endBlock.
type Pool struct {
	ID         string `json:"id"`
	StakeToken Token  `json:"stakeToken"`
	EarnToken  Token  `json:"earnToken"`
	Reward     string `json:"reward"`
	StartBlock string `json:"startBlock"`
	EndBlock   string `json:"endBlock"`
}

// EnrichedPool is the response entity: the registry's pool plus prices, APR
// and the human-scaled staked balance. Nil decimals encode as null.
type EnrichedPool struct {
	Pool
	StakeTokenPrice *decimal.Decimal `json:"stakeTokenPrice"`
	EarnTokenPrice  *decimal.Decimal `json:"earnTokenPrice"`
	APR             *decimal.Decimal `json:"apr"`
	TotalStaked     string           `json:"totalStaked"`
}

// Prices maps Token.Key to a price in the reference stable currency.
type Prices map[string]decimal.Decimal

// Lookup returns the price for a token id, matching case-insensitively.
func (p Prices) Lookup(tokenID string) (decimal.Decimal, bool) {
	v, ok := p[strings.ToLower(tokenID)]
	return v, ok
}

// Registry lists pools active at a block height.
type Registry interface {
	ActivePools(ctx context.Context, block uint64) ([]Pool, error)
}

// BalanceReader reads the chain height and every pool's staked balance of its
// stake token. Balances are index aligned with pools.
type BalanceReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	StakedBalances(ctx context.Context, pools []Pool) ([]*big.Int, error)
}

// PriceSource quotes a batch of tokens. Tokens it cannot price are left out
// of the result.
type PriceSource interface {
	Name() string
	Prices(ctx context.Context, tokens []Token) (Prices, error)
}

// UniqueTokens returns every stake and earn token referenced by pools,
// deduplicated by Key in order of first appearance.
func UniqueTokens(pools []Pool) []Token {
	seen := make(map[string]struct{}, len(pools)*2)
	var out []Token
	add := func(t Token) {
		if _, ok := seen[t.Key()]; ok {
			return
		}
		seen[t.Key()] = struct{}{}
		out = append(out, t)
	}
	for _, p := range pools {
		add(p.StakeToken)
	}
	for _, p := range pools {
		add(p.EarnToken)
	}
	return out
}
