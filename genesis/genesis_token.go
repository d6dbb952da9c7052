package genesis

import (
	"unicode/utf8"

	"github.com/beatoz/burnboost-go/ctrlers/boost"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
)

const (
	MaxNameLen   = 32
	MaxSymbolLen = 16
)

type GenesisAppState struct {
	Tokens []*GenesisToken `json:"tokens"`
}

// GenesisToken is a token initialized at genesis. After the initial supply
// is minted to `Authority`, every allocation is transferred from it.
type GenesisToken struct {
	Authority     types.Address        `json:"authority"`
	Token         types.Address        `json:"token"`
	Name          string               `json:"name"`
	Symbol        string               `json:"symbol"`
	Decimals      uint8                `json:"decimals"`
	InitialSupply uint64               `json:"initial_supply"`
	BaseMarketCap uint64               `json:"base_market_cap"`
	Allocations   []*GenesisAllocation `json:"allocations,omitempty"`
}

type GenesisAllocation struct {
	Address types.Address `json:"address"`
	Amount  uint64        `json:"amount"`
}

func (ga *GenesisAppState) Validate() xerrors.XError {
	seen := make(map[string]bool)
	for _, tok := range ga.Tokens {
		if err := types.ValidateAddress(tok.Authority); err != nil {
			return xerrors.ErrInitChain.Wrapf("authority of %s: %v", tok.Symbol, err)
		}
		if err := types.ValidateAddress(tok.Token); err != nil {
			return xerrors.ErrInitChain.Wrapf("token of %s: %v", tok.Symbol, err)
		}
		if seen[tok.Token.String()] {
			return xerrors.ErrAlreadyInitialized.Wrapf("duplicated token %v", tok.Token)
		}
		seen[tok.Token.String()] = true

		if utf8.RuneCountInString(tok.Name) > MaxNameLen || utf8.RuneCountInString(tok.Symbol) > MaxSymbolLen {
			return xerrors.ErrFieldTooLong.Wrapf("name: %q, symbol: %q", tok.Name, tok.Symbol)
		}
		if tok.InitialSupply == 0 {
			return xerrors.ErrInvalidSupply.Wrapf("token %v", tok.Token)
		}
		if xerr := boost.ValidateBaseMarketCap(tok.BaseMarketCap); xerr != nil {
			return xerr
		}

		var allocated uint64
		for _, alloc := range tok.Allocations {
			if err := types.ValidateAddress(alloc.Address); err != nil {
				return xerrors.ErrInitChain.Wrapf("allocation of %s: %v", tok.Symbol, err)
			}
			if alloc.Amount > tok.InitialSupply-allocated {
				return xerrors.ErrInsufficientSupply.Wrapf("allocations of %s exceed the initial supply", tok.Symbol)
			}
			allocated += alloc.Amount
		}
	}
	return nil
}
