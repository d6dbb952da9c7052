package burnboost

import (
	"github.com/beatoz/burnboost-go/ctrlers/boost"
	"github.com/beatoz/burnboost-go/libs/wirex"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"google.golang.org/protobuf/encoding/protowire"
)

// TokenState is the global record of a token, keyed by its mint address.
// InitialSupply and BaseMarketCap never change after initialization.
type TokenState struct {
	Authority              types.Address `json:"authority"`
	Mint                   types.Address `json:"mint"`
	Name                   string        `json:"name"`
	Symbol                 string        `json:"symbol"`
	Decimals               uint8         `json:"decimals"`
	InitialSupply          uint64        `json:"initial_supply"`
	CurrentSupply          uint64        `json:"current_supply"`
	TotalBurned            uint64        `json:"total_burned"`
	BaseMarketCap          uint64        `json:"base_market_cap"`
	CurrentBoostMultiplier uint64        `json:"current_boost_multiplier"`
	BurnTransactionCount   uint64        `json:"burn_transaction_count"`
}

func newTokenState(authority, mint types.Address, name, symbol string, decimals uint8, initialSupply, baseMarketCap uint64) *TokenState {
	return &TokenState{
		Authority:              authority,
		Mint:                   mint,
		Name:                   name,
		Symbol:                 symbol,
		Decimals:               decimals,
		InitialSupply:          initialSupply,
		CurrentSupply:          initialSupply,
		TotalBurned:            0,
		BaseMarketCap:          baseMarketCap,
		CurrentBoostMultiplier: boost.BaseMultiplier,
		BurnTransactionCount:   0,
	}
}

func (s *TokenState) Clone() *TokenState {
	c := *s
	c.Authority = s.Authority.Copy()
	c.Mint = s.Mint.Copy()
	return &c
}

// CheckInvariants verifies the relations between the counters.
func (s *TokenState) CheckInvariants() xerrors.XError {
	if s.TotalBurned > s.InitialSupply || s.CurrentSupply != s.InitialSupply-s.TotalBurned {
		return xerrors.ErrArithmetic.Wrapf("supply mismatch - initial: %d, current: %d, burned: %d",
			s.InitialSupply, s.CurrentSupply, s.TotalBurned)
	}
	mult, _, xerr := boost.MultiplierOf(s.TotalBurned, s.InitialSupply)
	if xerr != nil {
		return xerr
	}
	if mult != s.CurrentBoostMultiplier {
		return xerrors.ErrArithmetic.Wrapf("multiplier mismatch - expected: %d, actual: %d", mult, s.CurrentBoostMultiplier)
	}
	return nil
}

func (s *TokenState) Encode() ([]byte, xerrors.XError) {
	return wirex.NewEncoder().
		Bytes(1, s.Authority).
		Bytes(2, s.Mint).
		String(3, s.Name).
		String(4, s.Symbol).
		Uint64(5, uint64(s.Decimals)).
		Uint64(6, s.InitialSupply).
		Uint64(7, s.CurrentSupply).
		Uint64(8, s.TotalBurned).
		Uint64(9, s.BaseMarketCap).
		Uint64(10, s.CurrentBoostMultiplier).
		Uint64(11, s.BurnTransactionCount).
		Encode(), nil
}

func (s *TokenState) Decode(bz []byte) xerrors.XError {
	err := wirex.Walk(bz, func(num protowire.Number, f wirex.Field) error {
		var err error
		switch num {
		case 1:
			s.Authority, err = f.Bytes()
		case 2:
			s.Mint, err = f.Bytes()
		case 3:
			s.Name, err = f.String()
		case 4:
			s.Symbol, err = f.String()
		case 5:
			var d uint64
			d, err = f.Uint64()
			s.Decimals = uint8(d)
		case 6:
			s.InitialSupply, err = f.Uint64()
		case 7:
			s.CurrentSupply, err = f.Uint64()
		case 8:
			s.TotalBurned, err = f.Uint64()
		case 9:
			s.BaseMarketCap, err = f.Uint64()
		case 10:
			s.CurrentBoostMultiplier, err = f.Uint64()
		case 11:
			s.BurnTransactionCount, err = f.Uint64()
		}
		return err
	})
	if err != nil {
		return xerrors.From(err)
	}
	return nil
}
