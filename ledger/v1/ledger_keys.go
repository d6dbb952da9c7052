package v1

import (
	"github.com/beatoz/burnboost-go/types"
)

var (
	KeyPrefixTokenState   = []byte{0x00}
	KeyPrefixUserBurn     = []byte{0x01}
	KeyPrefixTokenAccount = []byte{0x10}
	KeyPrefixNonce        = []byte{0x11}
)

// LedgerKeyTokenState is the key of the global state record of `token`.
func LedgerKeyTokenState(token types.Address) LedgerKey {
	return concatKey(KeyPrefixTokenState, token)
}

// LedgerKeyUserBurn is the key of the burn ledger of `holder` for `token`.
// All ledgers of the same token share the prefix LedgerKeyUserBurnPrefix(token).
func LedgerKeyUserBurn(token, holder types.Address) LedgerKey {
	return concatKey(KeyPrefixUserBurn, token, holder)
}

func LedgerKeyUserBurnPrefix(token types.Address) []byte {
	return concatKey(KeyPrefixUserBurn, token)
}

func LedgerKeyTokenAccount(token, owner types.Address) LedgerKey {
	return concatKey(KeyPrefixTokenAccount, token, owner)
}

// LedgerKeyTokenAccountPrefix is shared by the accounts of all owners of `token`.
func LedgerKeyTokenAccountPrefix(token types.Address) []byte {
	return concatKey(KeyPrefixTokenAccount, token)
}

func LedgerKeyNonce(addr types.Address) LedgerKey {
	return concatKey(KeyPrefixNonce, addr)
}

func concatKey(prefix []byte, parts ...[]byte) LedgerKey {
	n := len(prefix)
	for _, p := range parts {
		n += len(p)
	}
	k := make([]byte, n)
	off := copy(k, prefix)
	for _, p := range parts {
		off += copy(k[off:], p)
	}
	return k
}
