// Package boost computes the market cap boost derived from the burned
// fraction of a token's initial supply. All values are in basis points
// (10000 = 100%) and every function is pure.
package boost

import (
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	BasisPoints       uint64 = 10_000
	BaseMultiplier    uint64 = BasisPoints
	MaxBoost          uint64 = 5_000 // +50%
	MaxMultiplier     uint64 = BaseMultiplier + MaxBoost
	BoostPerBurnRatio uint64 = 10 // a 1% burn is a 0.1% boost
)

// BurnedPercentage returns floor(totalBurned * 10000 / initialSupply).
func BurnedPercentage(totalBurned, initialSupply uint64) (uint64, xerrors.XError) {
	if initialSupply == 0 {
		return 0, xerrors.ErrArithmetic.Wrapf("initial supply is zero")
	}

	bp := new(uint256.Int).Mul(uint256.NewInt(totalBurned), uint256.NewInt(BasisPoints))
	bp.Div(bp, uint256.NewInt(initialSupply))
	if !bp.IsUint64() {
		return 0, xerrors.ErrOverFlow.Wrapf("burned percentage of %d/%d", totalBurned, initialSupply)
	}
	return bp.Uint64(), nil
}

// Multiplier returns 10000 + min(burnedBp * 10 / 100, 5000).
func Multiplier(burnedBp uint64) uint64 {
	// same as floor(burnedBp * 10 / 100) without overflowing.
	boost := burnedBp / (100 / BoostPerBurnRatio)
	if boost > MaxBoost {
		boost = MaxBoost
	}
	return BaseMultiplier + boost
}

// BoostPercentage returns the boost part of `multiplierBp`.
func BoostPercentage(multiplierBp uint64) uint64 {
	if multiplierBp < BaseMultiplier {
		return 0
	}
	return multiplierBp - BaseMultiplier
}

// MarketCap returns floor(baseMarketCap * multiplierBp / 10000).
func MarketCap(baseMarketCap, multiplierBp uint64) (uint64, xerrors.XError) {
	mcap := new(uint256.Int).Mul(uint256.NewInt(baseMarketCap), uint256.NewInt(multiplierBp))
	mcap.Div(mcap, uint256.NewInt(BasisPoints))
	if !mcap.IsUint64() {
		return 0, xerrors.ErrOverFlow.Wrapf("market cap of %d x %d", baseMarketCap, multiplierBp)
	}
	return mcap.Uint64(), nil
}

// ValidateBaseMarketCap fails when the market cap at the maximum multiplier
// would not fit in uint64.
func ValidateBaseMarketCap(baseMarketCap uint64) xerrors.XError {
	if _, xerr := MarketCap(baseMarketCap, MaxMultiplier); xerr != nil {
		return xerr
	}
	return nil
}

// MultiplierOf is Multiplier(BurnedPercentage(totalBurned, initialSupply)).
func MultiplierOf(totalBurned, initialSupply uint64) (uint64, uint64, xerrors.XError) {
	bp, xerr := BurnedPercentage(totalBurned, initialSupply)
	if xerr != nil {
		return 0, 0, xerr
	}
	return Multiplier(bp), bp, nil
}

type PreviewResult struct {
	BoostBp      uint64 `json:"boost_bp"`
	MultiplierBp uint64 `json:"multiplier_bp"`
	BurnedBp     uint64 `json:"burned_bp"`
}

// Preview computes the boost as if `hypothetical` more units were burned.
// The sum is not clamped to `initialSupply`.
func Preview(totalBurned, initialSupply, hypothetical uint64) (*PreviewResult, xerrors.XError) {
	sum, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(totalBurned), uint256.NewInt(hypothetical))
	if overflow || !sum.IsUint64() {
		return nil, xerrors.ErrOverFlow.Wrapf("total burned %d + hypothetical %d", totalBurned, hypothetical)
	}

	mult, bp, xerr := MultiplierOf(sum.Uint64(), initialSupply)
	if xerr != nil {
		return nil, xerr
	}
	return &PreviewResult{
		BoostBp:      BoostPercentage(mult),
		MultiplierBp: mult,
		BurnedBp:     bp,
	}, nil
}

// FormatBp renders basis points as a percentage, e.g. 1250 -> "12.5".
func FormatBp(bp uint64) string {
	return decimal.NewFromBigInt(new(uint256.Int).SetUint64(bp).ToBig(), -2).String()
}
