package account

import (
	v1 "github.com/beatoz/burnboost-go/ledger/v1"
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	QUERY_PATH_BALANCE = "account/balance"
	QUERY_PATH_NONCE   = "account/nonce"
	QUERY_PATH_HOLDERS = "account/holders"
)

type QueryAccountParams struct {
	Token types.Address `json:"token,omitempty"`
	Owner types.Address `json:"owner,omitempty"`
}

// Query reads the committed state at `req.Height` (the latest if 0).
func (ctrler *AcctCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	params := &QueryAccountParams{}
	if err := jsonx.Unmarshal(req.Data, params); err != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
	}
	height := req.Height
	if height == 0 {
		height = ctrler.acctState.Version()
	}
	immuLedger, xerr := ctrler.acctState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	var ret interface{}
	switch req.Path {
	case QUERY_PATH_BALANCE:
		if err := validateAddresses(params.Token, params.Owner); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		acct := NewTokenAccount(params.Token, params.Owner)
		if item, xerr := immuLedger.Get(v1.LedgerKeyTokenAccount(params.Token, params.Owner)); xerr == nil {
			acct = item.(*TokenAccount)
		} else if xerr != xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		ret = acct
	case QUERY_PATH_NONCE:
		if err := types.ValidateAddress(params.Owner); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		n := &AcctNonce{Address: params.Owner}
		if item, xerr := immuLedger.Get(v1.LedgerKeyNonce(params.Owner)); xerr == nil {
			n = item.(*AcctNonce)
		} else if xerr != xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		ret = n
	case QUERY_PATH_HOLDERS:
		if err := types.ValidateAddress(params.Token); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		accts := make([]*TokenAccount, 0)
		if xerr := immuLedger.Seek(v1.LedgerKeyTokenAccountPrefix(params.Token), true, func(_ v1.LedgerKey, item v1.ILedgerItem) xerrors.XError {
			if acct := item.(*TokenAccount); acct.Balance > 0 {
				accts = append(accts, acct)
			}
			return nil
		}); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		ret = accts
	default:
		return nil, xerrors.ErrInvalidQueryPath.Wrapf("path: %s", req.Path)
	}

	bz, err := jsonx.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}

func validateAddresses(addrs ...types.Address) error {
	for _, addr := range addrs {
		if err := types.ValidateAddress(addr); err != nil {
			return err
		}
	}
	return nil
}
