package burnboost

import (
	"unicode/utf8"

	"github.com/beatoz/burnboost-go/ctrlers/boost"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/genesis"
	v1 "github.com/beatoz/burnboost-go/ledger/v1"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
)

// Initialize creates the state of `token` and mints its initial supply to `authority`.
// It writes to the delivering ledger; the change is persisted by Commit.
func (ctrler *BurnBoostCtrler) Initialize(
	authority, token types.Address,
	name, symbol string, decimals uint8,
	initialSupply, baseMarketCap uint64) (*TokenState, xerrors.XError) {

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.initialize(authority, token, name, symbol, decimals, initialSupply, baseMarketCap, true, ctrler.notifier)
}

func (ctrler *BurnBoostCtrler) initialize(
	authority, token types.Address,
	name, symbol string, decimals uint8,
	initialSupply, baseMarketCap uint64,
	exec bool, notifier ctrlertypes.INotifier) (*TokenState, xerrors.XError) {

	if err := types.ValidateAddress(authority); err != nil {
		return nil, xerrors.ErrInvalidAddress.Wrap(err)
	}
	if err := types.ValidateAddress(token); err != nil {
		return nil, xerrors.ErrInvalidAddress.Wrap(err)
	}

	if _, xerr := ctrler.getTokenState(token, exec); xerr == nil {
		return nil, xerrors.ErrAlreadyInitialized.Wrapf("token: %v", token)
	} else if !xerr.Contains(xerrors.ErrNotFoundToken) {
		return nil, xerr
	}

	if xerr := validateInitParams(name, symbol, initialSupply, baseMarketCap); xerr != nil {
		return nil, xerr
	}

	state := newTokenState(authority, token, name, symbol, decimals, initialSupply, baseMarketCap)

	snap := ctrler.tokenState.Snapshot(exec)
	if xerr := ctrler.tokenState.Set(v1.LedgerKeyTokenState(token), state, exec); xerr != nil {
		_ = ctrler.tokenState.RevertToSnapshot(snap, exec)
		return nil, xerr
	}
	if xerr := ctrler.tokenLedger.MintTo(token, authority, initialSupply, exec); xerr != nil {
		if rerr := ctrler.tokenState.RevertToSnapshot(snap, exec); rerr != nil {
			ctrler.logger.Error("fail to revert token state", "token", token, "error", rerr.Error())
		}
		return nil, xerrors.ErrExternalMintFailed.Wrap(xerr)
	}

	ctrler.logger.Debug("initialize token", "token", token, "authority", authority, "supply", initialSupply, "exec", exec)

	notifier.Emit(tokenInitializedEvent(state))
	return state.Clone(), nil
}

func validateInitParams(name, symbol string, initialSupply, baseMarketCap uint64) xerrors.XError {
	if n := utf8.RuneCountInString(name); n > genesis.MaxNameLen {
		return xerrors.ErrFieldTooLong.Wrapf("name: %d characters, max: %d", n, genesis.MaxNameLen)
	}
	if n := utf8.RuneCountInString(symbol); n > genesis.MaxSymbolLen {
		return xerrors.ErrFieldTooLong.Wrapf("symbol: %d characters, max: %d", n, genesis.MaxSymbolLen)
	}
	if initialSupply == 0 {
		return xerrors.ErrInvalidSupply
	}
	return boost.ValidateBaseMarketCap(baseMarketCap)
}
