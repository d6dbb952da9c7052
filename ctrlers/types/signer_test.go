package types_test

import (
	"testing"

	ctrtypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/crypto"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/stretchr/testify/require"
)

func TestSigner_SignAndVerify(t *testing.T) {
	prv, xerr := crypto.NewPrvKey()
	require.NoError(t, xerr)
	sender := crypto.PrvKey2Addr(prv)

	signer := ctrtypes.NewSigner("signer_test_chain")
	tx := ctrtypes.NewTrxBurn(sender, types.RandAddress(), 1, 100)

	sig, xerr := signer.SignTrx(tx, prv)
	require.NoError(t, xerr)
	require.Len(t, sig, 65)
	require.Equal(t, sig, tx.Sig)

	addr, xerr := signer.VerifyTrx(tx)
	require.NoError(t, xerr)
	require.Equal(t, sender, addr)

	// the preimage excludes the sig.
	preimg0, xerr := signer.GetPreimage(tx)
	require.NoError(t, xerr)
	tx.Sig = nil
	preimg1, xerr := signer.GetPreimage(tx)
	require.NoError(t, xerr)
	require.Equal(t, preimg0, preimg1)
	tx.Sig = sig

	// a different chain does not verify
	_, xerr = ctrtypes.NewSigner("other_chain").VerifyTrx(tx)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrxSig)

	// a tampered trx does not verify
	tx.Amount = 101
	_, xerr = signer.VerifyTrx(tx)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrxSig)
}

func TestSigner_WrongSender(t *testing.T) {
	prv, xerr := crypto.NewPrvKey()
	require.NoError(t, xerr)

	signer := ctrtypes.NewSigner("signer_test_chain")
	// `From` is not the address of `prv`
	tx := ctrtypes.NewTrxBurn(types.RandAddress(), types.RandAddress(), 1, 100)
	_, xerr = signer.SignTrx(tx, prv)
	require.NoError(t, xerr)

	_, xerr = signer.VerifyTrx(tx)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrxSig)
}

func TestNewTrxContext(t *testing.T) {
	prv, xerr := crypto.NewPrvKey()
	require.NoError(t, xerr)
	sender := crypto.PrvKey2Addr(prv)

	signer := ctrtypes.NewSigner("signer_test_chain")
	tx := ctrtypes.NewTrxBurn(sender, types.RandAddress(), 1, 100)
	_, xerr = signer.SignTrx(tx, prv)
	require.NoError(t, xerr)

	bz, xerr := tx.Encode()
	require.NoError(t, xerr)

	txctx, xerr := ctrtypes.NewTrxContext(bz, 10, signer, true)
	require.NoError(t, xerr)
	require.Equal(t, sender, txctx.Sender)
	require.Equal(t, int64(10), txctx.Height)
	require.Len(t, txctx.TxHash, 32)
	require.True(t, txctx.Exec)

	_, xerr = ctrtypes.NewTrxContext(bz, 10, ctrtypes.NewSigner("other_chain"), true)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidTrxSig)
}
