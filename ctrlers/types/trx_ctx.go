package types

import (
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TrxContext carries a decoded and authenticated transaction through
// validation and execution. It is also the notifier of the events
// the transaction produces.
type TrxContext struct {
	Height int64
	Tx     *Trx
	TxHash bytes.HexBytes
	Exec   bool

	Sender  types.Address
	RetData []byte
	Events  []abcitypes.Event
}

func NewTrxContext(txbz []byte, height int64, signer *Signer, exec bool) (*TrxContext, xerrors.XError) {
	tx := &Trx{}
	if xerr := tx.Decode(txbz); xerr != nil {
		return nil, xerr
	}
	if xerr := tx.Validate(); xerr != nil {
		return nil, xerr
	}

	sender, xerr := signer.VerifyTrx(tx)
	if xerr != nil {
		return nil, xerr
	}

	return &TrxContext{
		Height: height,
		Tx:     tx,
		TxHash: tmtypes.Tx(txbz).Hash(),
		Exec:   exec,
		Sender: sender,
	}, nil
}

func (ctx *TrxContext) Emit(evt abcitypes.Event) {
	ctx.Events = append(ctx.Events, evt)
}

var _ INotifier = (*TrxContext)(nil)
