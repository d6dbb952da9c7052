package node

import (
	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/burnboost"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

// TrxExecutor validates and runs a transaction on the controller
// which handles its type, then consumes the sender's nonce.
type TrxExecutor struct {
	acctCtrler *account.AcctCtrler
	burnCtrler *burnboost.BurnBoostCtrler
	logger     log.Logger
}

func NewTrxExecutor(acctCtrler *account.AcctCtrler, burnCtrler *burnboost.BurnBoostCtrler, logger log.Logger) *TrxExecutor {
	return &TrxExecutor{
		acctCtrler: acctCtrler,
		burnCtrler: burnCtrler,
		logger:     logger.With("module", "burnboost_TrxExecutor"),
	}
}

func (txe *TrxExecutor) ExecuteSync(ctx *ctrlertypes.TrxContext) xerrors.XError {
	handler, xerr := txe.handlerOf(ctx)
	if xerr != nil {
		return xerr
	}
	if xerr := txe.validateTrx(ctx, handler); xerr != nil {
		return xerr
	}
	if xerr := handler.ExecuteTrx(ctx); xerr != nil {
		return xerr
	}
	return txe.postRunTrx(ctx)
}

func (txe *TrxExecutor) handlerOf(ctx *ctrlertypes.TrxContext) (ctrlertypes.ITrxHandler, xerrors.XError) {
	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_INIT_TOKEN, ctrlertypes.TRX_BURN:
		return txe.burnCtrler, nil
	case ctrlertypes.TRX_TRANSFER:
		return txe.acctCtrler, nil
	}
	return nil, xerrors.ErrInvalidTrxType.Wrapf("type: %d", ctx.Tx.GetType())
}

func (txe *TrxExecutor) validateTrx(ctx *ctrlertypes.TrxContext, handler ctrlertypes.ITrxHandler) xerrors.XError {
	// the nonce of every transaction is checked by the account ledger.
	if xerr := txe.acctCtrler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}
	if handler != ctrlertypes.ITrxHandler(txe.acctCtrler) {
		if xerr := handler.ValidateTrx(ctx); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (txe *TrxExecutor) postRunTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	return txe.acctCtrler.IncreaseNonce(ctx.Sender, ctx.Exec)
}
