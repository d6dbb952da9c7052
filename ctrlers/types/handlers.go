package types

import (
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

type ITrxHandler interface {
	ValidateTrx(*TrxContext) xerrors.XError
	ExecuteTrx(*TrxContext) xerrors.XError
}

// ITokenLedger holds the balances of tokens.
// BurnFrom destroys `amount` of `token` held by `holder`, authorized by `owner`.
type ITokenLedger interface {
	MintTo(token, dest types.Address, amount uint64, exec bool) xerrors.XError
	BurnFrom(token, holder, owner types.Address, amount uint64, exec bool) xerrors.XError
	BalanceOf(token, owner types.Address, exec bool) (uint64, xerrors.XError)
}

// INotifier receives the events of committed operations.
// Emit must not fail the operation that produced the event.
type INotifier interface {
	Emit(abcitypes.Event)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Emit(abcitypes.Event) {}

var _ INotifier = NopNotifier{}
