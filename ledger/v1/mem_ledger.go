package v1

import (
	"bytes"
	"sort"
	"sync"

	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/cosmos/iavl"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MemLedger is a writable overlay on top of a committed version.
// It cannot be committed; everything else is like MutableLedger.
type MemLedger struct {
	immuTree   *iavl.ImmutableTree
	items      map[string][]byte // nil value means deleted
	revisions  *revisionList[*[]byte]
	newItemFor FuncNewItemFor

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IImitable = (*MemLedger)(nil)

func NewMemLedgerAt(ver int64, from IMutable, newItemFor FuncNewItemFor, lg tmlog.Logger) (*MemLedger, xerrors.XError) {
	var tree *iavl.ImmutableTree
	if ver > 0 {
		_tree, xerr := from.GetReadOnlyTree(ver)
		if xerr != nil {
			return nil, xerr
		}
		tree = _tree
	}

	return &MemLedger{
		immuTree:   tree,
		items:      make(map[string][]byte),
		revisions:  newRevisionList[*[]byte](),
		newItemFor: newItemFor,
		logger:     lg.With("ledger", "MemLedger"),
	}, nil
}

func (ledger *MemLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	bz, ok := ledger.items[string(key)]
	if !ok && ledger.immuTree != nil {
		var err error
		if bz, err = ledger.immuTree.Get(key); err != nil {
			return nil, xerrors.From(err)
		}
	}
	if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}
	return decodeItem(ledger.newItemFor, key, bz)
}

// Seek merges the overlay into the committed items having `prefix`.
func (ledger *MemLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	merged := make(map[string][]byte)
	if ledger.immuTree != nil {
		start, end := prefixRange(prefix)
		iter, err := ledger.immuTree.Iterator(start, end, true)
		if err != nil {
			return xerrors.From(err)
		}
		for ; iter.Valid(); iter.Next() {
			if bytes.HasPrefix(iter.Key(), prefix) {
				merged[string(iter.Key())] = iter.Value()
			}
		}
		_ = iter.Close()
	}
	for k, v := range ledger.items {
		if bytes.HasPrefix([]byte(k), prefix) {
			merged[k] = v
		}
	}

	var keys LedgerKeyList
	for k, v := range merged {
		if v != nil {
			keys = append(keys, LedgerKey(k))
		}
	}
	if ascending {
		sort.Sort(keys)
	} else {
		sort.Sort(sort.Reverse(keys))
	}

	for _, key := range keys {
		item, xerr := decodeItem(ledger.newItemFor, key, merged[string(key)])
		if xerr != nil {
			return xerr
		}
		if xerr := cb(key, item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MemLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	bz, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}
	ledger.write(key, bz)
	return nil
}

func (ledger *MemLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.write(key, nil)
	return nil
}

func (ledger *MemLedger) write(key LedgerKey, bz []byte) {
	if old, ok := ledger.items[string(key)]; ok {
		ledger.revisions.set(key, &old)
	} else {
		// not in the overlay; removed from it in reverting.
		ledger.revisions.set(key, nil)
	}
	ledger.items[string(key)] = bz
}

func (ledger *MemLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MemLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if snap < 0 || snap > ledger.revisions.snapshot() {
		return xerrors.NewOrdinary("invalid snapshot").Wrapf("snapshot: %d, revisions: %d", snap, ledger.revisions.snapshot())
	}

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val != nil {
			ledger.items[string(kv.key)] = *kv.val
		} else {
			delete(ledger.items, string(kv.key))
		}
	}
	ledger.revisions.revert(snap)
	return nil
}
