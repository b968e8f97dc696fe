package pools

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// BlockTimeSeconds is the BSC target block interval.
	BlockTimeSeconds = 3
	// BlocksPerYear is 10,512,000 at a 3 second block time.
	BlocksPerYear = (60 / BlockTimeSeconds) * 60 * 24 * 365

	// Division truncates to 18 fractional digits, matching an ethers
	// fixed128x18 FixedNumber.
	aprPrecision = 18
)

// ErrZeroStakedValue means the pool has nothing staked (or a zero price), so
// the APR is undefined.
var ErrZeroStakedValue = errors.New("total staked value is zero")

var (
	blocksPerYear = decimal.NewFromInt(BlocksPerYear)
	hundred       = decimal.NewFromInt(100)
)

// PoolAPR returns the yearly reward value over the staked value, in percent.
func PoolAPR(stakingTokenPrice, rewardTokenPrice, totalStaked, tokenPerBlock decimal.Decimal) (decimal.Decimal, error) {
	rewardPerYear := rewardTokenPrice.Mul(tokenPerBlock).Mul(blocksPerYear)
	stakedValue := stakingTokenPrice.Mul(totalStaked)
	if stakedValue.IsZero() {
		return decimal.Zero, ErrZeroStakedValue
	}
	ratio, _ := rewardPerYear.QuoRem(stakedValue, aprPrecision)
	return ratio.Mul(hundred), nil
}

// FormatUnits scales a raw integer amount down by decimals. Whole numbers keep
// one fractional digit ("1000.0"), matching ethers' formatUnits. A nil amount
// formats as "".
func FormatUnits(raw *big.Int, decimals int32) string {
	if raw == nil {
		return ""
	}
	s := decimal.NewFromBigInt(raw, -decimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
