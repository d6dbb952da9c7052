package boost

import (
	"math"
	"testing"

	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/stretchr/testify/require"
)

func TestBurnedPercentage(t *testing.T) {
	cases := []struct {
		burned, supply, expected uint64
	}{
		{0, 1_000_000, 0},
		{100_000, 1_000_000, 1000},
		{1, 3, 3333},
		{1, 1_000_000, 0}, // floor
		{1_000_000, 1_000_000, 10000},
		{math.MaxUint64, math.MaxUint64, 10000}, // wide intermediate
		{math.MaxUint64 / 2, math.MaxUint64, 4999},
	}
	for _, c := range cases {
		bp, xerr := BurnedPercentage(c.burned, c.supply)
		require.NoError(t, xerr)
		require.Equal(t, c.expected, bp, "burned:%d, supply:%d", c.burned, c.supply)
	}

	_, xerr := BurnedPercentage(1, 0)
	require.ErrorIs(t, xerr, xerrors.ErrArithmetic)
}

func TestMultiplier(t *testing.T) {
	require.Equal(t, uint64(10000), Multiplier(0))
	require.Equal(t, uint64(10000), Multiplier(9))
	require.Equal(t, uint64(10001), Multiplier(10))
	require.Equal(t, uint64(10100), Multiplier(1000))
	require.Equal(t, uint64(10500), Multiplier(5000))
	require.Equal(t, uint64(11000), Multiplier(10000))
	require.Equal(t, MaxMultiplier, Multiplier(50000))
	require.Equal(t, MaxMultiplier, Multiplier(50001))
	require.Equal(t, MaxMultiplier, Multiplier(math.MaxUint64))

	// monotone non-decreasing and never above the cap
	prev := Multiplier(0)
	for bp := uint64(1); bp <= 60000; bp += 7 {
		m := Multiplier(bp)
		require.GreaterOrEqual(t, m, prev)
		require.LessOrEqual(t, m, MaxMultiplier)
		require.Equal(t, BaseMultiplier+min(bp*10/100, MaxBoost), m)
		prev = m
	}
}

func TestMarketCap(t *testing.T) {
	mcap, xerr := MarketCap(1_000_000, 10100)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1_010_000), mcap)

	mcap, xerr = MarketCap(333, 10001)
	require.NoError(t, xerr)
	require.Equal(t, uint64(333), mcap) // floor(333.0333)

	// the intermediate product exceeds 64 bits, the result does not.
	mcap, xerr = MarketCap(math.MaxUint64/2, 10000)
	require.NoError(t, xerr)
	require.Equal(t, uint64(math.MaxUint64/2), mcap)

	_, xerr = MarketCap(math.MaxUint64, MaxMultiplier)
	require.ErrorIs(t, xerr, xerrors.ErrOverFlow)
}

func TestValidateBaseMarketCap(t *testing.T) {
	// the largest base whose maximum boosted market cap fits in uint64
	maxBase := uint64(math.MaxUint64) / 3 * 2

	require.NoError(t, ValidateBaseMarketCap(0))
	require.NoError(t, ValidateBaseMarketCap(maxBase))
	mcap, xerr := MarketCap(maxBase, MaxMultiplier)
	require.NoError(t, xerr)
	require.Equal(t, uint64(math.MaxUint64), mcap)

	require.ErrorIs(t, ValidateBaseMarketCap(maxBase+1), xerrors.ErrOverFlow)
	require.ErrorIs(t, ValidateBaseMarketCap(math.MaxUint64), xerrors.ErrOverFlow)
}

func TestBoostPercentage(t *testing.T) {
	require.Equal(t, uint64(0), BoostPercentage(10000))
	require.Equal(t, uint64(100), BoostPercentage(10100))
	require.Equal(t, uint64(5000), BoostPercentage(15000))
}

func TestPreview(t *testing.T) {
	// fresh token, 5% hypothetical burn
	ret, xerr := Preview(0, 1_000_000, 50_000)
	require.NoError(t, xerr)
	require.Equal(t, uint64(10050), ret.MultiplierBp)
	require.Equal(t, uint64(50), ret.BoostBp)
	require.Equal(t, uint64(500), ret.BurnedBp)

	// not clamped to the initial supply
	ret, xerr = Preview(500_000, 1_000_000, 1_500_000)
	require.NoError(t, xerr)
	require.Equal(t, uint64(20000), ret.BurnedBp)
	require.Equal(t, uint64(12000), ret.MultiplierBp)

	// but the multiplier is still capped
	ret, xerr = Preview(0, 1_000_000, 10_000_000)
	require.NoError(t, xerr)
	require.Equal(t, MaxMultiplier, ret.MultiplierBp)
	require.Equal(t, MaxBoost, ret.BoostBp)

	_, xerr = Preview(math.MaxUint64, 1_000_000, 1)
	require.ErrorIs(t, xerr, xerrors.ErrOverFlow)

	_, xerr = Preview(0, 0, 1)
	require.ErrorIs(t, xerr, xerrors.ErrArithmetic)
}

func TestFormatBp(t *testing.T) {
	require.Equal(t, "0", FormatBp(0))
	require.Equal(t, "1", FormatBp(100))
	require.Equal(t, "12.5", FormatBp(1250))
	require.Equal(t, "100", FormatBp(10000))
	require.Equal(t, "0.01", FormatBp(1))
}
