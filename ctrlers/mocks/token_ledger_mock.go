package mocks

import (
	"sync"

	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
)

// TokenLedgerMock keeps balances in memory and ignores `exec`.
// A non-nil FailMint or FailBurn is returned by the next calls of MintTo or BurnFrom.
type TokenLedgerMock struct {
	balances map[string]uint64

	FailMint xerrors.XError
	FailBurn xerrors.XError

	MintCalls int
	BurnCalls int

	mtx sync.Mutex
}

var _ ctrlertypes.ITokenLedger = (*TokenLedgerMock)(nil)

func NewTokenLedgerMock() *TokenLedgerMock {
	return &TokenLedgerMock{balances: make(map[string]uint64)}
}

func balanceKey(token, owner types.Address) string {
	return string(token) + string(owner)
}

func (mock *TokenLedgerMock) MintTo(token, dest types.Address, amount uint64, exec bool) xerrors.XError {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.MintCalls++
	if mock.FailMint != nil {
		return mock.FailMint
	}

	k := balanceKey(token, dest)
	if mock.balances[k]+amount < amount {
		return xerrors.ErrOverFlow
	}
	mock.balances[k] += amount
	return nil
}

func (mock *TokenLedgerMock) BurnFrom(token, holder, owner types.Address, amount uint64, exec bool) xerrors.XError {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.BurnCalls++
	if mock.FailBurn != nil {
		return mock.FailBurn
	}
	if !holder.Equal(owner) {
		return xerrors.ErrUnauthorized
	}

	k := balanceKey(token, holder)
	if mock.balances[k] < amount {
		return xerrors.ErrInsufficientBalance.Wrapf("balance: %d, amount: %d", mock.balances[k], amount)
	}
	mock.balances[k] -= amount
	return nil
}

func (mock *TokenLedgerMock) BalanceOf(token, owner types.Address, exec bool) (uint64, xerrors.XError) {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	return mock.balances[balanceKey(token, owner)], nil
}

// SetBalance overwrites the balance without any check.
func (mock *TokenLedgerMock) SetBalance(token, owner types.Address, amount uint64) {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.balances[balanceKey(token, owner)] = amount
}
