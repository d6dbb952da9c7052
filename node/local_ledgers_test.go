package node

import (
	"testing"

	"github.com/beatoz/burnboost-go/cmd/config"
	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/burnboost"
	"github.com/beatoz/burnboost-go/genesis"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func newTestAppState(authority types.Address) *genesis.GenesisAppState {
	return &genesis.GenesisAppState{
		Tokens: []*genesis.GenesisToken{{
			Authority:     authority,
			Token:         types.RandAddress(),
			Name:          "Burn Boost",
			Symbol:        "BOOST",
			InitialSupply: 1_000_000,
			BaseMarketCap: 1_000_000,
		}},
	}
}

// runTwoBlocks returns the config of a stopped app which has committed 2 blocks.
func runTwoBlocks(t *testing.T) *config.Config {
	app, cfg := newTestApp(t, newTestAppState(newTestWallet(t).addr))
	runBlock(t, app)
	runBlock(t, app)
	require.NoError(t, app.Stop())
	return cfg
}

func restartApp(t *testing.T, cfg *config.Config) *BurnBoostApp {
	app, err := NewBurnBoostApp(cfg, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })
	return app
}

func TestLocalLedgers_CommitRefusedOnChain(t *testing.T) {
	cfg := runTwoBlocks(t)

	l, err := OpenLocalLedgers(cfg, log.NewNopLogger())
	require.NoError(t, err)
	token := types.RandAddress()
	_, xerr := l.BurnCtrler.Initialize(types.RandAddress(), token, "Local", "LCL", 0, 1000, 1000)
	require.NoError(t, xerr)
	xerr = l.Commit()
	require.ErrorIs(t, xerr, xerrors.ErrCommit)
	require.Equal(t, int64(2), l.BurnCtrler.Version())
	require.Equal(t, int64(2), l.AcctCtrler.Version())
	l.Close()

	app := restartApp(t, cfg)
	info := app.Info(abcitypes.RequestInfo{})
	require.Equal(t, int64(2), info.LastBlockHeight)

	// the next block is height 3 on every ledger
	runBlock(t, app)
	require.Equal(t, int64(3), app.lastHeight)
	require.Equal(t, int64(3), app.metaDB.LastBlockHeight())

	_, xerr = app.burnCtrler.GetTokenState(token)
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)
}

func TestLocalLedgers_CommitBeforeChain(t *testing.T) {
	cfg := config.DefaultConfig().SetRoot(t.TempDir())

	l, err := OpenLocalLedgers(cfg, log.NewNopLogger())
	require.NoError(t, err)
	authority, token := types.RandAddress(), types.RandAddress()
	_, xerr := l.BurnCtrler.Initialize(authority, token, "Local", "LCL", 0, 1000, 1000)
	require.NoError(t, xerr)
	require.NoError(t, l.Commit())
	l.Close()

	l, err = OpenLocalLedgers(cfg, log.NewNopLogger())
	require.NoError(t, err)
	defer l.Close()
	bal, xerr := l.AcctCtrler.BalanceOf(token, authority, true)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1000), bal)
}

func TestNewBurnBoostApp_LedgerVersionMismatch(t *testing.T) {
	cfg := runTwoBlocks(t)

	// ledgers committed apart from a block
	acctCtrler, xerr := account.NewAcctCtrler(cfg, log.NewNopLogger())
	require.NoError(t, xerr)
	burnCtrler, xerr := burnboost.NewBurnBoostCtrler(cfg, acctCtrler, log.NewNopLogger())
	require.NoError(t, xerr)
	_, xerr = burnCtrler.Initialize(types.RandAddress(), types.RandAddress(), "Apart", "APT", 0, 1000, 1000)
	require.NoError(t, xerr)
	_, ver, xerr := burnCtrler.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(3), ver)
	_, _, xerr = acctCtrler.Commit()
	require.NoError(t, xerr)
	require.NoError(t, burnCtrler.Close())
	require.NoError(t, acctCtrler.Close())

	_, err := NewBurnBoostApp(cfg, log.NewNopLogger())
	require.Error(t, err)
	require.ErrorIs(t, err, xerrors.ErrCommit)

	// the rejected start released the databases
	l, err := OpenLocalLedgers(cfg, log.NewNopLogger())
	require.NoError(t, err)
	l.Close()
}
