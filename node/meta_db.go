package node

import (
	"encoding/binary"
	"sync"

	tmdb "github.com/tendermint/tm-db"
)

const (
	keyLastHeight  = "lh"
	keyLastAppHash = "ah"
	keyChainID     = "ci"
	keyTxn         = "xn"
)

// MetaDB keeps what the app reports to the consensus engine at start up.
type MetaDB struct {
	db tmdb.DB

	txn uint64

	mtx sync.RWMutex
}

func OpenMetaDB(name, dir string) (*MetaDB, error) {
	// The returned 'db' instance is safe in concurrent use.
	db, err := tmdb.NewDB(name, "goleveldb", dir)
	if err != nil {
		return nil, err
	}

	txn := uint64(0)
	if v, err := db.Get([]byte(keyTxn)); v != nil && err == nil {
		txn = binary.BigEndian.Uint64(v)
	}

	return &MetaDB{
		db:  db,
		txn: txn,
	}, nil
}

func (stdb *MetaDB) Close() error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	return stdb.db.Close()
}

func (stdb *MetaDB) LastBlockHeight() int64 {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	bz := stdb.get(keyLastHeight)
	if len(bz) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(bz))
}

func (stdb *MetaDB) LastBlockAppHash() []byte {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.get(keyLastAppHash)
}

// PutLastBlock stores the height and the app hash of the committed block together.
func (stdb *MetaDB) PutLastBlock(height int64, appHash []byte) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	batch := stdb.db.NewBatch()
	defer batch.Close()

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(height))
	if err := batch.Set([]byte(keyLastHeight), bz); err != nil {
		return err
	}
	if err := batch.Set([]byte(keyLastAppHash), appHash); err != nil {
		return err
	}
	return batch.WriteSync()
}

func (stdb *MetaDB) ChainID() string {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return string(stdb.get(keyChainID))
}

func (stdb *MetaDB) PutChainID(chainId string) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	return stdb.put(keyChainID, []byte(chainId))
}

func (stdb *MetaDB) Txn() uint64 {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.txn
}

func (stdb *MetaDB) PutTxn(n uint64) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	if err := stdb.put(keyTxn, bz); err != nil {
		return err
	}
	stdb.txn = n
	return nil
}

func (stdb *MetaDB) get(k string) []byte {
	if v, err := stdb.db.Get([]byte(k)); err == nil {
		return v
	}
	return nil
}

func (stdb *MetaDB) put(k string, v []byte) error {
	if err := stdb.db.SetSync([]byte(k), v); err != nil {
		return err
	}
	return nil
}
