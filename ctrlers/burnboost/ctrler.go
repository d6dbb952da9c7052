package burnboost

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

// BurnBoostCtrler owns the token states and the burn ledgers of holders.
// Every operation holds the controller's lock from its first read to its
// last write, so a burn is never interleaved with another burn or read.
type BurnBoostCtrler struct {
	tokenState  v1.IStateLedger
	tokenLedger ctrlertypes.ITokenLedger
	notifier    ctrlertypes.INotifier

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*BurnBoostCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*BurnBoostCtrler)(nil)

func newBurnItemFor(key v1.LedgerKey) v1.ILedgerItem {
	switch key[0] {
	case v1.KeyPrefixTokenState[0]:
		return &TokenState{}
	case v1.KeyPrefixUserBurn[0]:
		return &UserBurn{}
	}
	return nil
}

func NewBurnBoostCtrler(config *cfg.Config, tokenLedger ctrlertypes.ITokenLedger, logger tmlog.Logger) (*BurnBoostCtrler, xerrors.XError) {
	lg := logger.With("module", "burnboost_BurnBoostCtrler")

	_state, xerr := v1.NewStateLedger("burnboost", config.DBDir(), config.BurnBoost.LedgerCacheSize, newBurnItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &BurnBoostCtrler{
		tokenState:  _state,
		tokenLedger: tokenLedger,
		notifier:    ctrlertypes.NopNotifier{},
		logger:      lg,
	}, nil
}

// SetNotifier sets the sink of the events emitted by Initialize and Burn.
// Transactions emit to their own context instead.
func (ctrler *BurnBoostCtrler) SetNotifier(n ctrlertypes.INotifier) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if n == nil {
		n = ctrlertypes.NopNotifier{}
	}
	ctrler.notifier = n
}

func (ctrler *BurnBoostCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: BurnBoostCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	for _, tok := range genAppState.Tokens {
		if _, xerr := ctrler.initialize(
			tok.Authority, tok.Token, tok.Name, tok.Symbol, tok.Decimals,
			tok.InitialSupply, tok.BaseMarketCap, true, ctrlertypes.NopNotifier{},
		); xerr != nil {
			return xerrors.ErrInitChain.Wrap(xerr)
		}
	}
	return nil
}

func (ctrler *BurnBoostCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	tx := ctx.Tx
	switch tx.GetType() {
	case ctrlertypes.TRX_INIT_TOKEN:
		payload, ok := tx.Payload.(*ctrlertypes.TrxPayloadInitToken)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadParams
		}
		if _, xerr := ctrler.getTokenState(tx.Token, ctx.Exec); xerr == nil {
			return xerrors.ErrAlreadyInitialized.Wrapf("token: %v", tx.Token)
		}
		if xerr := validateInitParams(payload.Name, payload.Symbol, tx.Amount, payload.BaseMarketCap); xerr != nil {
			return xerr
		}
	case ctrlertypes.TRX_BURN:
		if tx.Amount == 0 {
			return xerrors.ErrInvalidBurnAmount
		}
		state, xerr := ctrler.getTokenState(tx.Token, ctx.Exec)
		if xerr != nil {
			return xerr
		}
		if tx.Amount > state.CurrentSupply {
			return xerrors.ErrInsufficientSupply.Wrapf("current supply: %d, amount: %d", state.CurrentSupply, tx.Amount)
		}
		bal, xerr := ctrler.tokenLedger.BalanceOf(tx.Token, ctx.Sender, ctx.Exec)
		if xerr != nil {
			return xerr
		}
		if bal < tx.Amount {
			return xerrors.ErrExternalBurnFailed.Wrap(
				xerrors.ErrInsufficientBalance.Wrapf("balance: %d, amount: %d", bal, tx.Amount))
		}
	default:
		return xerrors.ErrInvalidTrxType.Wrapf("BurnBoostCtrler can not handle %s", tx.TypeString())
	}
	return nil
}

func (ctrler *BurnBoostCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	tx := ctx.Tx
	switch tx.GetType() {
	case ctrlertypes.TRX_INIT_TOKEN:
		payload := tx.Payload.(*ctrlertypes.TrxPayloadInitToken)
		if _, xerr := ctrler.initialize(
			ctx.Sender, tx.Token, payload.Name, payload.Symbol, payload.Decimals,
			tx.Amount, payload.BaseMarketCap, ctx.Exec, ctx,
		); xerr != nil {
			return xerr
		}
	case ctrlertypes.TRX_BURN:
		ret, xerr := ctrler.burn(tx.Token, ctx.Sender, ctx.Sender, tx.Amount, ctx.Exec, ctx)
		if xerr != nil {
			return xerr
		}
		ctx.RetData = ret.Bytes()
	default:
		return xerrors.ErrInvalidTrxType.Wrapf("BurnBoostCtrler can not handle %s", tx.TypeString())
	}
	return nil
}

func (ctrler *BurnBoostCtrler) getTokenState(token types.Address, exec bool) (*TokenState, xerrors.XError) {
	return readTokenState(execView{ctrler.tokenState, exec}, token)
}

// Version is the last committed version of the ledger.
func (ctrler *BurnBoostCtrler) Version() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.tokenState.Version()
}

func (ctrler *BurnBoostCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.tokenState.Commit()
	if xerr != nil {
		ctrler.logger.Error("tokenState.Commit() returns error", "error", xerr.Error())
	}
	return h, v, xerr
}

func (ctrler *BurnBoostCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.tokenState != nil {
		if xerr := ctrler.tokenState.Close(); xerr != nil {
			ctrler.logger.Error("tokenState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.tokenState = nil
	}
	return nil
}

// execView reads the delivering (exec) or the checking ledger.
type execView struct {
	ledger v1.IStateLedger
	exec   bool
}

func (v execView) Get(key v1.LedgerKey) (v1.ILedgerItem, xerrors.XError) {
	return v.ledger.Get(key, v.exec)
}

func (v execView) Seek(prefix []byte, ascending bool, cb v1.FuncIterate) xerrors.XError {
	return v.ledger.Seek(prefix, ascending, cb, v.exec)
}

var _ v1.IGettable = execView{}

func readTokenState(ledger v1.IGettable, token types.Address) (*TokenState, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyTokenState(token))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundToken.Wrapf("token: %v", token)
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*TokenState).Clone(), nil
}

func readUserBurn(ledger v1.IGettable, token, holder types.Address) (*UserBurn, xerrors.XError) {
	item, xerr := ledger.Get(v1.LedgerKeyUserBurn(token, holder))
	if xerr == xerrors.ErrNotFoundResult {
		return &UserBurn{Holder: holder, Token: token}, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*UserBurn).Clone(), nil
}
