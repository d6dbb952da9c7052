package burnboost

import (
	"github.com/beatoz/burnboost-go/ctrlers/boost"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	v1 "github.com/beatoz/burnboost-go/ledger/v1"
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
)

// BurnResult describes a committed burn.
type BurnResult struct {
	Token         types.Address `json:"token"`
	Holder        types.Address `json:"holder"`
	Amount        uint64        `json:"amount"`
	OldMultiplier uint64        `json:"old_multiplier"`
	NewMultiplier uint64        `json:"new_multiplier"`
	BurnedBp      uint64        `json:"burned_percentage"`
	TotalBurned   uint64        `json:"total_burned"`
	HolderBurned  uint64        `json:"holder_burned"`
}

func (r *BurnResult) Bytes() []byte {
	bz, _ := jsonx.Marshal(r)
	return bz
}

// Burn destroys `amount` of `token` held by `holder`, authorized by the holder itself.
func (ctrler *BurnBoostCtrler) Burn(token, holder types.Address, amount uint64) (*BurnResult, xerrors.XError) {
	return ctrler.BurnBy(token, holder, holder, amount)
}

// BurnBy is Burn with an explicit authorizer. The token ledger rejects
// the burn when `owner` may not spend the holder's balance.
func (ctrler *BurnBoostCtrler) BurnBy(token, holder, owner types.Address, amount uint64) (*BurnResult, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.burn(token, holder, owner, amount, true, ctrler.notifier)
}

func (ctrler *BurnBoostCtrler) burn(token, holder, owner types.Address, amount uint64, exec bool, notifier ctrlertypes.INotifier) (*BurnResult, xerrors.XError) {
	if amount == 0 {
		return nil, xerrors.ErrInvalidBurnAmount
	}

	state, xerr := ctrler.getTokenState(token, exec)
	if xerr != nil {
		return nil, xerr
	}
	userBurn, xerr := readUserBurn(execView{ctrler.tokenState, exec}, token, holder)
	if xerr != nil {
		return nil, xerr
	}

	// all new values are computed on the copies before anything is written.
	if state.TotalBurned > state.TotalBurned+amount {
		return nil, xerrors.ErrOverFlow.Wrapf("total burned %d + amount %d", state.TotalBurned, amount)
	}
	if amount > state.CurrentSupply {
		return nil, xerrors.ErrInsufficientSupply.Wrapf("current supply: %d, amount: %d", state.CurrentSupply, amount)
	}
	if userBurn.BurnedAmount > userBurn.BurnedAmount+amount {
		return nil, xerrors.ErrOverFlow.Wrapf("burned by holder %d + amount %d", userBurn.BurnedAmount, amount)
	}

	state.TotalBurned += amount
	state.CurrentSupply -= amount
	state.BurnTransactionCount++
	userBurn.BurnedAmount += amount

	oldMult := state.CurrentBoostMultiplier
	newMult, burnedBp, xerr := boost.MultiplierOf(state.TotalBurned, state.InitialSupply)
	if xerr != nil {
		return nil, xerr
	}
	state.CurrentBoostMultiplier = newMult

	if xerr := state.CheckInvariants(); xerr != nil {
		return nil, xerr
	}

	snap := ctrler.tokenState.Snapshot(exec)
	revert := func() {
		if rerr := ctrler.tokenState.RevertToSnapshot(snap, exec); rerr != nil {
			ctrler.logger.Error("fail to revert token state", "token", token, "error", rerr.Error())
		}
	}

	if xerr := ctrler.tokenState.Set(v1.LedgerKeyTokenState(token), state, exec); xerr != nil {
		revert()
		return nil, xerr
	}
	if xerr := ctrler.tokenState.Set(v1.LedgerKeyUserBurn(token, holder), userBurn, exec); xerr != nil {
		revert()
		return nil, xerr
	}
	if xerr := ctrler.tokenLedger.BurnFrom(token, holder, owner, amount, exec); xerr != nil {
		revert()
		return nil, xerrors.ErrExternalBurnFailed.Wrap(xerr)
	}

	ctrler.logger.Debug("burn",
		"token", token, "holder", holder, "amount", amount,
		"total_burned", state.TotalBurned, "multiplier", newMult, "exec", exec)

	notifier.Emit(burnCompletedEvent(token, holder, amount, newMult))
	if newMult != oldMult {
		notifier.Emit(boostChangedEvent(token, oldMult, newMult, burnedBp))
	}

	return &BurnResult{
		Token:         token,
		Holder:        holder,
		Amount:        amount,
		OldMultiplier: oldMult,
		NewMultiplier: newMult,
		BurnedBp:      burnedBp,
		TotalBurned:   state.TotalBurned,
		HolderBurned:  userBurn.BurnedAmount,
	}, nil
}
