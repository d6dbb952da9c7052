package burnboost

import (
	"github.com/beatoz/burnboost-go/ctrlers/boost"
	v1 "github.com/beatoz/burnboost-go/ledger/v1"
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	QUERY_PATH_STATS   = "token/stats"
	QUERY_PATH_PREVIEW = "token/preview"
	QUERY_PATH_STATE   = "token/state"
	QUERY_PATH_BURNED  = "token/burned"
	QUERY_PATH_HOLDERS = "token/holders"
)

// TokenStats is derived from a TokenState on every read.
type TokenStats struct {
	Token                types.Address `json:"token"`
	InitialSupply        uint64        `json:"initial_supply"`
	CurrentSupply        uint64        `json:"current_supply"`
	TotalBurned          uint64        `json:"total_burned"`
	BurnedPercentage     uint64        `json:"burned_percentage"`
	CurrentMarketCap     uint64        `json:"current_market_cap"`
	BoostPercentage      uint64        `json:"boost_percentage"`
	BurnTransactionCount uint64        `json:"burn_transaction_count"`
}

func statsOf(s *TokenState) (*TokenStats, xerrors.XError) {
	bp, xerr := boost.BurnedPercentage(s.TotalBurned, s.InitialSupply)
	if xerr != nil {
		return nil, xerr
	}
	mcap, xerr := boost.MarketCap(s.BaseMarketCap, s.CurrentBoostMultiplier)
	if xerr != nil {
		return nil, xerr
	}
	return &TokenStats{
		Token:                s.Mint,
		InitialSupply:        s.InitialSupply,
		CurrentSupply:        s.CurrentSupply,
		TotalBurned:          s.TotalBurned,
		BurnedPercentage:     bp,
		CurrentMarketCap:     mcap,
		BoostPercentage:      boost.BoostPercentage(s.CurrentBoostMultiplier),
		BurnTransactionCount: s.BurnTransactionCount,
	}, nil
}

func (ctrler *BurnBoostCtrler) GetTokenState(token types.Address) (*TokenState, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.getTokenState(token, true)
}

func (ctrler *BurnBoostCtrler) GetStats(token types.Address) (*TokenStats, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	state, xerr := ctrler.getTokenState(token, true)
	if xerr != nil {
		return nil, xerr
	}
	return statsOf(state)
}

// PreviewBoost returns the boost the token would have after burning
// `hypothetical` more units. Nothing is written.
func (ctrler *BurnBoostCtrler) PreviewBoost(token types.Address, hypothetical uint64) (*boost.PreviewResult, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	state, xerr := ctrler.getTokenState(token, true)
	if xerr != nil {
		return nil, xerr
	}
	return boost.Preview(state.TotalBurned, state.InitialSupply, hypothetical)
}

// BurnedBy returns the cumulative amount `holder` has burned of `token`.
func (ctrler *BurnBoostCtrler) BurnedBy(token, holder types.Address) (uint64, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	view := execView{ctrler.tokenState, true}
	if _, xerr := readTokenState(view, token); xerr != nil {
		return 0, xerr
	}
	ub, xerr := readUserBurn(view, token, holder)
	if xerr != nil {
		return 0, xerr
	}
	return ub.BurnedAmount, nil
}

// Holders returns the burn ledgers of every holder who has burned `token`.
func (ctrler *BurnBoostCtrler) Holders(token types.Address) ([]*UserBurn, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return holdersOf(execView{ctrler.tokenState, true}, token)
}

func holdersOf(ledger v1.IGettable, token types.Address) ([]*UserBurn, xerrors.XError) {
	if _, xerr := readTokenState(ledger, token); xerr != nil {
		return nil, xerr
	}

	var ret []*UserBurn
	xerr := ledger.Seek(v1.LedgerKeyUserBurnPrefix(token), true, func(key v1.LedgerKey, item v1.ILedgerItem) xerrors.XError {
		ret = append(ret, item.(*UserBurn).Clone())
		return nil
	})
	if xerr != nil {
		return nil, xerr
	}
	return ret, nil
}

type QueryTokenParams struct {
	Token  types.Address `json:"token"`
	Holder types.Address `json:"holder,omitempty"`
	Amount uint64        `json:"amount,omitempty"`
}

// Query reads the committed state at `req.Height` (the latest if 0).
func (ctrler *BurnBoostCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	params := &QueryTokenParams{}
	if err := jsonx.Unmarshal(req.Data, params); err != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
	}
	if err := types.ValidateAddress(params.Token); err != nil {
		return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
	}

	height := req.Height
	if height == 0 {
		height = ctrler.tokenState.Version()
	}
	immuLedger, xerr := ctrler.tokenState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	state, xerr := readTokenState(immuLedger, params.Token)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	var ret interface{}
	switch req.Path {
	case QUERY_PATH_STATS:
		if ret, xerr = statsOf(state); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
	case QUERY_PATH_PREVIEW:
		if ret, xerr = boost.Preview(state.TotalBurned, state.InitialSupply, params.Amount); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
	case QUERY_PATH_STATE:
		ret = state
	case QUERY_PATH_BURNED:
		if err := types.ValidateAddress(params.Holder); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		if ret, xerr = readUserBurn(immuLedger, params.Token, params.Holder); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
	case QUERY_PATH_HOLDERS:
		if ret, xerr = holdersOf(immuLedger, params.Token); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
	default:
		return nil, xerrors.ErrInvalidQueryPath.Wrapf("path: %s", req.Path)
	}

	bz, err := jsonx.Marshal(ret)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}
