package node

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"sync"

	cfg "github.com/beatoz/burnboost-go/cmd/config"
	"github.com/beatoz/burnboost-go/cmd/version"
	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/burnboost"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/genesis"
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/crypto"
	"github.com/beatoz/burnboost-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	tmver "github.com/tendermint/tendermint/version"
)

var _ abcitypes.Application = (*BurnBoostApp)(nil)

type BurnBoostApp struct {
	abcitypes.BaseApplication

	lastHeight  int64
	lastAppHash bytes.HexBytes
	currHeight  int64
	txsCnt      uint64

	metaDB     *MetaDB
	acctCtrler *account.AcctCtrler
	burnCtrler *burnboost.BurnBoostCtrler
	txExecutor *TrxExecutor
	signer     *ctrlertypes.Signer

	rootConfig *cfg.Config

	logger log.Logger
	mtx    sync.Mutex
}

const metaDBName = "burnboost_app"

func NewBurnBoostApp(config *cfg.Config, logger log.Logger) (*BurnBoostApp, error) {
	metaDB, err := OpenMetaDB(metaDBName, config.DBDir())
	if err != nil {
		return nil, err
	}

	acctCtrler, xerr := account.NewAcctCtrler(config, logger)
	if xerr != nil {
		_ = metaDB.Close()
		return nil, xerr
	}

	burnCtrler, xerr := burnboost.NewBurnBoostCtrler(config, acctCtrler, logger)
	if xerr != nil {
		_ = acctCtrler.Close()
		_ = metaDB.Close()
		return nil, xerr
	}

	if xerr := checkLedgerVersions(metaDB.LastBlockHeight(), map[string]int64{
		"burnboost": burnCtrler.Version(),
		"account":   acctCtrler.Version(),
	}); xerr != nil {
		_ = burnCtrler.Close()
		_ = acctCtrler.Close()
		_ = metaDB.Close()
		return nil, xerr
	}

	return &BurnBoostApp{
		metaDB:     metaDB,
		acctCtrler: acctCtrler,
		burnCtrler: burnCtrler,
		txExecutor: NewTrxExecutor(acctCtrler, burnCtrler, logger),
		signer:     ctrlertypes.NewSigner(config.ChainID()),
		rootConfig: config,
		logger:     logger.With("module", "burnboost_App"),
	}, nil
}

func (app *BurnBoostApp) Stop() error {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if err := app.burnCtrler.Close(); err != nil {
		return err
	}
	if err := app.acctCtrler.Close(); err != nil {
		return err
	}
	if err := app.metaDB.Close(); err != nil {
		return err
	}
	return nil
}

func (app *BurnBoostApp) Info(info abcitypes.RequestInfo) abcitypes.ResponseInfo {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	app.logger.Info("Info", "version", tmver.ABCIVersion, "AppVersion", version.String())

	app.lastHeight = app.metaDB.LastBlockHeight()
	app.lastAppHash = app.metaDB.LastBlockAppHash()
	app.txsCnt = app.metaDB.Txn()
	if chainId := app.metaDB.ChainID(); chainId != "" {
		app.rootConfig.BurnBoost.ChainID = chainId
		app.signer = ctrlertypes.NewSigner(chainId)
	}

	app.logger.Debug("Info", "height", app.lastHeight, "appHash", app.lastAppHash)

	return abcitypes.ResponseInfo{
		Data:             "",
		Version:          tmver.ABCIVersion,
		AppVersion:       version.Uint64(version.MASK_MAJOR_VER, version.MASK_MINOR_VER),
		LastBlockHeight:  app.lastHeight,
		LastBlockAppHash: app.lastAppHash,
	}
}

// InitChain is called only when the ResponseInfo::LastBlockHeight which is returned in Info() is 0.
func (app *BurnBoostApp) InitChain(req abcitypes.RequestInitChain) abcitypes.ResponseInitChain {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if req.GetChainId() == "" {
		panic("there is no chain_id")
	}
	app.rootConfig.BurnBoost.ChainID = req.GetChainId()
	app.signer = ctrlertypes.NewSigner(req.GetChainId())
	if err := app.metaDB.PutChainID(req.GetChainId()); err != nil {
		panic(err)
	}

	appState := &genesis.GenesisAppState{}
	if len(req.AppStateBytes) > 0 {
		if err := jsonx.Unmarshal(req.AppStateBytes, appState); err != nil {
			panic(err)
		}
	}
	if xerr := appState.Validate(); xerr != nil {
		app.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}

	appHash, err := appState.Hash()
	if err != nil {
		panic(err)
	}

	// the initial supplies are minted before they are allocated.
	if xerr := app.burnCtrler.InitLedger(appState); xerr != nil {
		app.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}
	if xerr := app.acctCtrler.InitLedger(appState); xerr != nil {
		app.logger.Error("InitChain", "error", xerr)
		panic(xerr)
	}

	return abcitypes.ResponseInitChain{
		AppHash: appHash,
	}
}

func (app *BurnBoostApp) CheckTx(req abcitypes.RequestCheckTx) abcitypes.ResponseCheckTx {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	txctx, xerr := ctrlertypes.NewTrxContext(req.Tx, app.lastHeight+1, app.signer, false)
	if xerr == nil {
		xerr = app.txExecutor.ExecuteSync(txctx)
	}
	if xerr != nil {
		xerr = xerrors.ErrCheckTx.Wrap(xerr)
		app.logger.Error("CheckTx", "error", xerr)
		return abcitypes.ResponseCheckTx{
			Code: xerr.Code(),
			Log:  xerr.Error(),
		}
	}

	return abcitypes.ResponseCheckTx{
		Code: abcitypes.CodeTypeOK,
		Data: txctx.RetData,
	}
}

func (app *BurnBoostApp) BeginBlock(req abcitypes.RequestBeginBlock) abcitypes.ResponseBeginBlock {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if req.Header.Height != app.lastHeight+1 {
		panic(fmt.Errorf("error block height: expected(%v), actual(%v)", app.lastHeight+1, req.Header.Height))
	}
	app.logger.Debug("BeginBlock", "height", req.Header.Height, "hash", req.Hash)

	app.currHeight = req.Header.Height
	return abcitypes.ResponseBeginBlock{}
}

func (app *BurnBoostApp) DeliverTx(req abcitypes.RequestDeliverTx) abcitypes.ResponseDeliverTx {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	txctx, xerr := ctrlertypes.NewTrxContext(req.Tx, app.currHeight, app.signer, true)
	if xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		app.logger.Error("DeliverTx", "error", xerr)
		return abcitypes.ResponseDeliverTx{
			Code: xerr.Code(),
			Log:  xerr.Error(),
		}
	}
	app.txsCnt++

	if xerr = app.txExecutor.ExecuteSync(txctx); xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		app.logger.Error("DeliverTx", "error", xerr)

		// events of the failed transaction are dropped.
		return abcitypes.ResponseDeliverTx{
			Code:   xerr.Code(),
			Log:    xerr.Error(),
			Events: []abcitypes.Event{txEvent(txctx, xerr.Code())},
		}
	}

	return abcitypes.ResponseDeliverTx{
		Code:   abcitypes.CodeTypeOK,
		Data:   txctx.RetData,
		Events: append(txctx.Events, txEvent(txctx, abcitypes.CodeTypeOK)),
	}
}

func txEvent(txctx *ctrlertypes.TrxContext, code uint32) abcitypes.Event {
	attrs := []abcitypes.EventAttribute{
		{Key: []byte(ctrlertypes.EVENT_ATTR_TXTYPE), Value: []byte(txctx.Tx.TypeString()), Index: true},
		{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(txctx.Sender.String()), Index: true},
		{Key: []byte(ctrlertypes.EVENT_ATTR_TOKEN), Value: []byte(txctx.Tx.Token.String()), Index: true},
		{Key: []byte(ctrlertypes.EVENT_ATTR_TXSTATUS), Value: []byte(strconv.Itoa(int(code))), Index: false},
	}
	if len(txctx.Tx.To) > 0 {
		attrs = append(attrs, abcitypes.EventAttribute{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(txctx.Tx.To.String()), Index: true})
	}
	return abcitypes.Event{Type: "tx", Attributes: attrs}
}

func (app *BurnBoostApp) Commit() abcitypes.ResponseCommit {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	appHash0, ver0, xerr := app.burnCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	app.logger.Debug("Commit", "height", ver0, "appHash0", bytes.HexBytes(appHash0))

	appHash1, ver1, xerr := app.acctCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	app.logger.Debug("Commit", "height", ver1, "appHash1", bytes.HexBytes(appHash1))

	if ver0 != ver1 {
		panic(fmt.Sprintf("Not same versions: burnboost: %v, account: %v", ver0, ver1))
	}

	appHash := crypto.DefaultHash(appHash0, appHash1)
	if err := app.metaDB.PutLastBlock(ver0, appHash); err != nil {
		panic(err)
	}
	if err := app.metaDB.PutTxn(app.txsCnt); err != nil {
		panic(err)
	}

	app.lastHeight = ver0
	app.lastAppHash = appHash
	app.logger.Debug("Commit", "height", ver0, "txs", app.txsCnt, "appHash", app.lastAppHash)

	return abcitypes.ResponseCommit{
		Data: appHash,
	}
}

func (app *BurnBoostApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	app.mtx.Lock()
	lastHeight := app.lastHeight
	app.mtx.Unlock()

	if req.Height == 0 {
		req.Height = lastHeight
	}

	response := abcitypes.ResponseQuery{
		Code:   abcitypes.CodeTypeOK,
		Key:    req.Data,
		Height: req.Height,
	}

	var xerr xerrors.XError
	switch {
	case req.Path == "chain_id":
		response.Value = []byte(app.rootConfig.ChainID())
	case req.Path == "block_height":
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, uint64(lastHeight))
		response.Value = val
	case req.Path == "txn":
		response.Value = []byte(fmt.Sprintf("\"%d\"", app.metaDB.Txn()))
	case strings.HasPrefix(req.Path, "account/"):
		response.Value, xerr = app.acctCtrler.Query(req)
	case strings.HasPrefix(req.Path, "token/"):
		response.Value, xerr = app.burnCtrler.Query(req)
	default:
		xerr = xerrors.ErrInvalidQueryPath.Wrapf("path: %s", req.Path)
	}

	if xerr != nil {
		app.logger.Error("Query returns error", "error", xerr, "path", req.Path)
		response.Code = xerr.Code()
		response.Log = xerr.Error()
		response.Value = nil
	}
	return response
}
