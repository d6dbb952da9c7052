package crypto

import (
	"path/filepath"
	"testing"

	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/stretchr/testify/require"
)

func TestSignRecover(t *testing.T) {
	prv, xerr := NewPrvKey()
	require.NoError(t, xerr)

	msg := []byte("burn 100 tokens")
	sig, xerr := Sign(msg, prv)
	require.NoError(t, xerr)
	require.Len(t, sig, 65)

	addr, xerr := Recover(msg, sig)
	require.NoError(t, xerr)
	require.Equal(t, PrvKey2Addr(prv), addr)

	// other message
	addr, xerr = Recover([]byte("burn 101 tokens"), sig)
	if xerr == nil {
		require.NotEqual(t, PrvKey2Addr(prv), addr)
	}

	_, xerr = Recover(msg, sig[:64])
	require.True(t, xerr.Contains(xerrors.ErrInvalidTrxSig))
}

func TestWalletKey(t *testing.T) {
	prv, xerr := NewPrvKey()
	require.NoError(t, xerr)

	// light scrypt params for testing
	wk, xerr := NewWalletKeyWith(prv, []byte("1111"), 1<<10, 8, 1)
	require.NoError(t, xerr)
	require.Equal(t, PrvKey2Addr(prv), wk.Address)

	path := filepath.Join(t.TempDir(), "wk.json")
	require.NoError(t, wk.Save(path))

	wk2, xerr := OpenWalletKey(path)
	require.NoError(t, xerr)
	require.Equal(t, wk.Address, wk2.Address)

	_, xerr = wk2.PrvKey([]byte("2222"))
	require.True(t, xerr.Contains(xerrors.ErrUnauthorized))

	prv2, xerr := wk2.PrvKey([]byte("1111"))
	require.NoError(t, xerr)
	require.Equal(t, prv.D, prv2.D)
}
