package node

import (
	"testing"

	"github.com/beatoz/burnboost-go/cmd/config"
	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/burnboost"
	"github.com/beatoz/burnboost-go/ctrlers/mocks"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func newTestExecutor(t *testing.T) (*TrxExecutor, *account.AcctCtrler, *burnboost.BurnBoostCtrler) {
	cfg := config.DefaultConfig().SetRoot(t.TempDir())
	acctCtrler, xerr := account.NewAcctCtrler(cfg, log.NewNopLogger())
	require.NoError(t, xerr)
	burnCtrler, xerr := burnboost.NewBurnBoostCtrler(cfg, acctCtrler, log.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() {
		_ = burnCtrler.Close()
		_ = acctCtrler.Close()
	})
	return NewTrxExecutor(acctCtrler, burnCtrler, log.NewNopLogger()), acctCtrler, burnCtrler
}

func TestTrxExecutor(t *testing.T) {
	txe, acctCtrler, burnCtrler := newTestExecutor(t)
	signer := ctrlertypes.NewSigner(testChainId)
	w := newTestWallet(t)
	token := types.RandAddress()

	// wrong nonce
	txctx, xerr := mocks.MakeTrxCtx(ctrlertypes.NewTrxInitToken(w.addr, token, 1, 1000, "T", "T", 0, 1000), w.prv, signer, 1, true)
	require.NoError(t, xerr)
	require.ErrorIs(t, txe.ExecuteSync(txctx), xerrors.ErrInvalidNonce)
	require.Equal(t, uint64(0), acctCtrler.Nonce(w.addr, true))

	txctx, xerr = mocks.MakeTrxCtx(ctrlertypes.NewTrxInitToken(w.addr, token, 0, 1000, "T", "T", 0, 1000), w.prv, signer, 1, true)
	require.NoError(t, xerr)
	require.NoError(t, txe.ExecuteSync(txctx))
	require.Equal(t, uint64(1), acctCtrler.Nonce(w.addr, true))
	require.Len(t, txctx.Events, 1)

	// a failed burn does not consume the nonce
	txctx, xerr = mocks.MakeTrxCtx(ctrlertypes.NewTrxBurn(w.addr, token, 1, 0), w.prv, signer, 1, true)
	require.NoError(t, xerr)
	require.ErrorIs(t, txe.ExecuteSync(txctx), xerrors.ErrInvalidBurnAmount)
	require.Equal(t, uint64(1), acctCtrler.Nonce(w.addr, true))

	txctx, xerr = mocks.MakeTrxCtx(ctrlertypes.NewTrxBurn(w.addr, token, 1, 250), w.prv, signer, 1, true)
	require.NoError(t, xerr)
	require.NoError(t, txe.ExecuteSync(txctx))
	require.Equal(t, uint64(2), acctCtrler.Nonce(w.addr, true))

	burned, xerr := burnCtrler.BurnedBy(token, w.addr)
	require.NoError(t, xerr)
	require.Equal(t, uint64(250), burned)

	// the signer burns only its own tokens
	other := newTestWallet(t)
	txctx, xerr = mocks.MakeTrxCtx(ctrlertypes.NewTrxBurn(other.addr, token, 0, 1), other.prv, signer, 1, true)
	require.NoError(t, xerr)
	xerr = txe.ExecuteSync(txctx)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientBalance)
	// same code as a burn rejected by the token ledger itself
	require.Equal(t, xerrors.ErrCodeExternalBurnFailed, xerr.Code())
	require.ErrorIs(t, xerr, xerrors.ErrExternalBurnFailed)
}
