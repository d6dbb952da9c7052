package account

import (
	"sync"

	cfg "github.com/beatoz/burnboost-go/cmd/config"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/genesis"
	v1 "github.com/beatoz/burnboost-go/ledger/v1"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// AcctCtrler is the token ledger: balances of every (token, owner)
// and the transaction nonce of every signer.
type AcctCtrler struct {
	acctState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ITokenLedger = (*AcctCtrler)(nil)
var _ ctrlertypes.ILedgerHandler = (*AcctCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*AcctCtrler)(nil)

func newAcctItemFor(key v1.LedgerKey) v1.ILedgerItem {
	switch key[0] {
	case v1.KeyPrefixTokenAccount[0]:
		return &TokenAccount{}
	case v1.KeyPrefixNonce[0]:
		return &AcctNonce{}
	}
	return nil
}

func NewAcctCtrler(config *cfg.Config, logger tmlog.Logger) (*AcctCtrler, xerrors.XError) {
	lg := logger.With("module", "burnboost_AcctCtrler")

	_state, xerr := v1.NewStateLedger("accounts", config.DBDir(), config.BurnBoost.LedgerCacheSize, newAcctItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &AcctCtrler{
		acctState: _state,
		logger:    lg,
	}, nil
}

// InitLedger transfers the genesis allocations from each token's authority.
// The initial supplies must be minted before.
func (ctrler *AcctCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: AcctCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	for _, tok := range genAppState.Tokens {
		for _, alloc := range tok.Allocations {
			if xerr := ctrler.transfer(tok.Token, tok.Authority, alloc.Address, alloc.Amount, true); xerr != nil {
				return xerrors.ErrInitChain.Wrap(xerr)
			}
		}
	}
	return nil
}

func (ctrler *AcctCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if nonce := ctrler.nonceOf(ctx.Sender, ctx.Exec); ctx.Tx.Nonce != nonce {
		return xerrors.ErrInvalidNonce.Wrapf("expected: %d, actual: %d", nonce, ctx.Tx.Nonce)
	}

	if ctx.Tx.GetType() == ctrlertypes.TRX_TRANSFER {
		if ctx.Tx.Amount == 0 {
			return xerrors.ErrInvalidTrxPayloadParams.Wrapf("transfer amount is zero")
		}
		bal, xerr := ctrler.balanceOf(ctx.Tx.Token, ctx.Sender, ctx.Exec)
		if xerr != nil {
			return xerr
		}
		if bal < ctx.Tx.Amount {
			return xerrors.ErrInsufficientBalance.Wrapf("balance: %d, amount: %d", bal, ctx.Tx.Amount)
		}
	}
	return nil
}

func (ctrler *AcctCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctx.Tx.GetType() != ctrlertypes.TRX_TRANSFER {
		return xerrors.ErrInvalidTrxType.Wrapf("AcctCtrler can not execute %s", ctx.Tx.TypeString())
	}
	if xerr := ctrler.transfer(ctx.Tx.Token, ctx.Sender, ctx.Tx.To, ctx.Tx.Amount, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.Emit(transferEvent(ctx.Tx.Token, ctx.Sender, ctx.Tx.To, ctx.Tx.Amount))
	return nil
}

func (ctrler *AcctCtrler) MintTo(token, dest types.Address, amount uint64, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	acct := ctrler.findOrNewAccount(token, dest, exec)
	if xerr := acct.AddBalance(amount); xerr != nil {
		return xerr
	}
	return ctrler.acctState.Set(v1.LedgerKeyTokenAccount(token, dest), acct, exec)
}

// BurnFrom destroys `amount` of `holder`'s balance.
// Only the holder itself can authorize it.
func (ctrler *AcctCtrler) BurnFrom(token, holder, owner types.Address, amount uint64, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if !holder.Equal(owner) {
		return xerrors.ErrUnauthorized.Wrapf("%v is not the owner of %v's account", owner, holder)
	}

	acct := ctrler.findOrNewAccount(token, holder, exec)
	if xerr := acct.SubBalance(amount); xerr != nil {
		return xerr
	}
	return ctrler.acctState.Set(v1.LedgerKeyTokenAccount(token, holder), acct, exec)
}

func (ctrler *AcctCtrler) Transfer(token, from, to types.Address, amount uint64, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.transfer(token, from, to, amount, exec)
}

func (ctrler *AcctCtrler) transfer(token, from, to types.Address, amount uint64, exec bool) xerrors.XError {
	sender := ctrler.findOrNewAccount(token, from, exec)
	if xerr := sender.SubBalance(amount); xerr != nil {
		return xerr
	}
	if from.Equal(to) {
		return nil
	}

	receiver := ctrler.findOrNewAccount(token, to, exec)
	if xerr := receiver.AddBalance(amount); xerr != nil {
		return xerr
	}

	if xerr := ctrler.acctState.Set(v1.LedgerKeyTokenAccount(token, from), sender, exec); xerr != nil {
		return xerr
	}
	return ctrler.acctState.Set(v1.LedgerKeyTokenAccount(token, to), receiver, exec)
}

func (ctrler *AcctCtrler) BalanceOf(token, owner types.Address, exec bool) (uint64, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.balanceOf(token, owner, exec)
}

func (ctrler *AcctCtrler) balanceOf(token, owner types.Address, exec bool) (uint64, xerrors.XError) {
	item, xerr := ctrler.acctState.Get(v1.LedgerKeyTokenAccount(token, owner), exec)
	if xerr == xerrors.ErrNotFoundResult {
		return 0, nil
	} else if xerr != nil {
		return 0, xerr
	}
	return item.(*TokenAccount).Balance, nil
}

// findOrNewAccount returns a copy, so that a failed update leaves
// the cached account untouched.
func (ctrler *AcctCtrler) findOrNewAccount(token, owner types.Address, exec bool) *TokenAccount {
	item, xerr := ctrler.acctState.Get(v1.LedgerKeyTokenAccount(token, owner), exec)
	if xerr != nil {
		return NewTokenAccount(token, owner)
	}
	return item.(*TokenAccount).Clone()
}

func (ctrler *AcctCtrler) Nonce(addr types.Address, exec bool) uint64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.nonceOf(addr, exec)
}

func (ctrler *AcctCtrler) nonceOf(addr types.Address, exec bool) uint64 {
	item, xerr := ctrler.acctState.Get(v1.LedgerKeyNonce(addr), exec)
	if xerr != nil {
		return 0
	}
	return item.(*AcctNonce).Nonce
}

func (ctrler *AcctCtrler) IncreaseNonce(addr types.Address, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	n := &AcctNonce{
		Address: addr,
		Nonce:   ctrler.nonceOf(addr, exec) + 1,
	}
	return ctrler.acctState.Set(v1.LedgerKeyNonce(addr), n, exec)
}

func (ctrler *AcctCtrler) Version() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.acctState.Version()
}

func (ctrler *AcctCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.acctState.Commit()
	if xerr != nil {
		ctrler.logger.Error("acctState.Commit() returns error", "error", xerr.Error())
	}
	return h, v, xerr
}

func (ctrler *AcctCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctState != nil {
		if xerr := ctrler.acctState.Close(); xerr != nil {
			ctrler.logger.Error("acctState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.acctState = nil
	}
	return nil
}
