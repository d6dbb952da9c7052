package v1

import (
	"bytes"
	"sync"

	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MutableLedger is an iavl tree persisted in goleveldb.
// Every write is recorded in a revision list so that it can be undone
// by RevertToSnapshot until the next Commit.
type MutableLedger struct {
	db         dbm.DB
	tree       *iavl.MutableTree
	revisions  *revisionList[[]byte]
	cachedObjs map[string]ILedgerItem

	newItemFor FuncNewItemFor

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewMutableLedger(name, dbDir string, cacheSize int, newItemFor FuncNewItemFor, lg tmlog.Logger) (*MutableLedger, xerrors.XError) {
	db, err := dbm.NewGoLevelDB(name, dbDir)
	if err != nil {
		return nil, xerrors.Wrap(err, "goleveldb open failed")
	}

	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger(), iavl.SyncOption(true))
	if _, err := tree.LoadVersion(0); err != nil {
		_ = tree.Close()
		_ = db.Close()
		return nil, xerrors.Wrap(err, "tree's LoadVersion failed")
	}

	return &MutableLedger{
		db:         db,
		tree:       tree,
		revisions:  newRevisionList[[]byte](),
		cachedObjs: make(map[string]ILedgerItem),
		newItemFor: newItemFor,
		logger:     lg.With("ledger", "MutableLedger"),
	}, nil
}

func (ledger *MutableLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if obj, ok := ledger.cachedObjs[string(key)]; ok {
		return obj, nil
	}

	item, xerr := ledger.get(key)
	if xerr != nil {
		return nil, xerr
	}
	ledger.cachedObjs[string(key)] = item
	return item, nil
}

func (ledger *MutableLedger) get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	bz, err := ledger.tree.Get(key)
	if err != nil {
		return nil, xerrors.From(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return decodeItem(ledger.newItemFor, key, bz)
}

// Seek visits, in key order, every item whose key starts with `prefix`.
func (ledger *MutableLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	start, end := prefixRange(prefix)
	iter, err := ledger.tree.Iterator(start, end, ascending)
	if err != nil {
		return xerrors.From(err)
	}
	defer func() {
		_ = iter.Close()
	}()

	for ; iter.Valid(); iter.Next() {
		key := iter.Key()
		if !bytes.HasPrefix(key, prefix) {
			continue
		}
		item, xerr := decodeItem(ledger.newItemFor, key, iter.Value())
		if xerr != nil {
			return xerr
		}
		if xerr := cb(key, item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MutableLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if xerr := ledger.set(key, item); xerr != nil {
		return xerr
	}

	ledger.cachedObjs[string(key)] = item
	return nil
}

func (ledger *MutableLedger) set(key LedgerKey, item ILedgerItem) xerrors.XError {
	oldVal, err := ledger.tree.Get(key)
	if err != nil {
		return xerrors.From(err)
	}
	newVal, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}

	if _, err = ledger.tree.Set(key, newVal); err != nil {
		return xerrors.From(err)
	}

	ledger.logger.Debug("set item to tree", "key", key, "oldVal", oldVal, "newVal", newVal)

	if !bytes.Equal(oldVal, newVal) {
		// nil `oldVal` means the item is created and will be removed in reverting.
		ledger.revisions.set(key, oldVal)
	}
	return nil
}

func (ledger *MutableLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, removed, err := ledger.tree.Remove(key)
	if err != nil {
		return xerrors.From(err)
	}
	ledger.logger.Debug("delete item from tree", "key", key, "value", oldVal, "removed", removed)

	if removed {
		ledger.revisions.set(key, oldVal)
	}

	delete(ledger.cachedObjs, string(key))
	return nil
}

func (ledger *MutableLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MutableLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if snap < 0 || snap > ledger.revisions.snapshot() {
		return xerrors.NewOrdinary("invalid snapshot").Wrapf("snapshot: %d, revisions: %d", snap, ledger.revisions.snapshot())
	}

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val != nil {
			if _, err := ledger.tree.Set(kv.key, kv.val); err != nil {
				return xerrors.From(err)
			}
		} else {
			if _, _, err := ledger.tree.Remove(kv.key); err != nil {
				return xerrors.From(err)
			}
		}
		delete(ledger.cachedObjs, string(kv.key))
	}
	ledger.revisions.revert(snap)
	return nil
}

func (ledger *MutableLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	hash, ver, err := ledger.tree.SaveVersion()
	if err != nil {
		return nil, 0, xerrors.From(err)
	}

	ledger.logger.Debug("tree save version", "hash", hash, "version", ver)

	ledger.revisions.reset()
	ledger.cachedObjs = make(map[string]ILedgerItem)
	return hash, ver, nil
}

func (ledger *MutableLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

func (ledger *MutableLedger) GetReadOnlyTree(ver int64) (*iavl.ImmutableTree, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	tree, err := ledger.tree.GetImmutable(ver)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return tree, nil
}

func (ledger *MutableLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.tree != nil {
		if err := ledger.tree.Close(); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.tree = nil

	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.db = nil

	ledger.revisions.reset()
	return nil
}

var _ IMutable = (*MutableLedger)(nil)

func decodeItem(newItemFor FuncNewItemFor, key LedgerKey, bz []byte) (ILedgerItem, xerrors.XError) {
	item := newItemFor(key)
	if item == nil {
		return nil, xerrors.NewOrdinary("unknown ledger key").Wrapf("key: %X", key)
	}
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return item, nil
}

// prefixRange returns the [start, end) range covering all keys with `prefix`.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
