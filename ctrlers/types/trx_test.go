package types_test

import (
	"math/rand"
	"testing"

	ctrtypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func TestTrxEncode(t *testing.T) {
	txs := []*ctrtypes.Trx{
		ctrtypes.NewTrxInitToken(types.RandAddress(), types.RandAddress(), rand.Uint64(), rand.Uint64(), "Burn Boost", "BOOST", 9, rand.Uint64()),
		ctrtypes.NewTrxBurn(types.RandAddress(), types.RandAddress(), rand.Uint64(), rand.Uint64()),
		ctrtypes.NewTrxTransfer(types.RandAddress(), types.RandAddress(), types.RandAddress(), rand.Uint64(), rand.Uint64()),
	}

	for _, tx0 := range txs {
		tx0.Sig = bytes.RandBytes(65)

		bzTx0, xerr := tx0.Encode()
		require.NoError(t, xerr)

		tx1 := &ctrtypes.Trx{}
		require.NoError(t, tx1.Decode(bzTx0))
		require.Equal(t, tx0, tx1)

		bzTx1, xerr := tx1.Encode()
		require.NoError(t, xerr)
		require.Equal(t, bzTx0, bzTx1)
	}
}

func TestTrxDecode_WrongType(t *testing.T) {
	tx0 := ctrtypes.NewTrxBurn(types.RandAddress(), types.RandAddress(), 1, 100)
	tx0.Type = 100

	bz, xerr := tx0.Encode()
	require.NoError(t, xerr)
	require.Error(t, (&ctrtypes.Trx{}).Decode(bz))

	// not rlp
	require.Error(t, (&ctrtypes.Trx{}).Decode(bytes.RandBytes(100)))
}

func TestTrxValidate(t *testing.T) {
	tx := ctrtypes.NewTrxTransfer(types.RandAddress(), types.RandAddress(), types.RandAddress(), 1, 100)
	require.ErrorIs(t, tx.Validate(), xerrors.ErrInvalidTrxSig)

	tx.Sig = bytes.RandBytes(65)
	require.NoError(t, tx.Validate())

	tx.To = nil
	require.ErrorIs(t, tx.Validate(), xerrors.ErrInvalidAddress)

	tx = ctrtypes.NewTrxBurn(types.RandAddress(), bytes.RandBytes(19), 1, 100)
	tx.Sig = bytes.RandBytes(65)
	require.ErrorIs(t, tx.Validate(), xerrors.ErrInvalidAddress)

	tx = ctrtypes.NewTrxBurn(types.RandAddress(), types.RandAddress(), 1, 100)
	tx.Sig = bytes.RandBytes(65)
	tx.Payload = &ctrtypes.TrxPayloadTransfer{}
	require.ErrorIs(t, tx.Validate(), xerrors.ErrInvalidTrxPayloadParams)
}

func TestRLP_TrxPayloadInitToken(t *testing.T) {
	tx0 := ctrtypes.NewTrxInitToken(types.RandAddress(), types.RandAddress(), 0, 1_000_000, "Burn Boost", "BOOST", 6, 1_000_000)

	bz0, err := rlp.EncodeToBytes(tx0)
	require.NoError(t, err)

	tx1 := &ctrtypes.Trx{}
	require.NoError(t, rlp.DecodeBytes(bz0, tx1))

	payload := tx1.Payload.(*ctrtypes.TrxPayloadInitToken)
	require.Equal(t, "Burn Boost", payload.Name)
	require.Equal(t, "BOOST", payload.Symbol)
	require.Equal(t, uint8(6), payload.Decimals)
	require.Equal(t, uint64(1_000_000), payload.BaseMarketCap)
	require.Equal(t, uint64(1_000_000), tx1.Amount)
}
