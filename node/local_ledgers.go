package node

import (
	cfg "github.com/beatoz/burnboost-go/cmd/config"
	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/burnboost"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

// LocalLedgers opens the ledgers of a stopped node for direct token operations.
// Its changes can be committed only while no block has been committed,
// because a committed ledger version must always be a block height recorded in MetaDB.
type LocalLedgers struct {
	AcctCtrler *account.AcctCtrler
	BurnCtrler *burnboost.BurnBoostCtrler

	metaDB *MetaDB
}

func OpenLocalLedgers(config *cfg.Config, logger log.Logger) (*LocalLedgers, error) {
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
	return &LocalLedgers{
		AcctCtrler: acctCtrler,
		BurnCtrler: burnCtrler,
		metaDB:     metaDB,
	}, nil
}

// Commit persists the changes. It fails without writing anything
// when the ledgers already carry the blocks of a chain.
func (l *LocalLedgers) Commit() xerrors.XError {
	if h := l.metaDB.LastBlockHeight(); h > 0 {
		return xerrors.ErrCommit.Wrapf("the ledgers hold a chain at height %d; local changes can not be committed", h)
	}
	if _, _, xerr := l.BurnCtrler.Commit(); xerr != nil {
		return xerr
	}
	if _, _, xerr := l.AcctCtrler.Commit(); xerr != nil {
		return xerr
	}
	return nil
}

func (l *LocalLedgers) Close() {
	_ = l.BurnCtrler.Close()
	_ = l.AcctCtrler.Close()
	_ = l.metaDB.Close()
}

// checkLedgerVersions fails when a ledger was committed apart from a block.
func checkLedgerVersions(lastHeight int64, versions map[string]int64) xerrors.XError {
	for name, ver := range versions {
		if ver != lastHeight {
			return xerrors.ErrCommit.Wrapf("the version of %s ledger is %d, but the last block height is %d", name, ver, lastHeight)
		}
	}
	return nil
}
