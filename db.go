package accumulator

import (
	"crypto/ecdsa"
	"time"

	"github.com/go-errors/errors"
	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"

	"github.com/setproofs/accumulator/signed"
)

// DB is a bolthold database persisting an update log as seen by one party: every event of
// the chain keyed by its index, plus the latest signed log record. Witness holders use it
// to serve catch-up updates without keeping the whole chain in memory.
type DB struct {
	// Current is the latest verified log record, maintained by AddUpdate and LoadHead.
	Current *LogRecord

	bolt *bolthold.Store
}

// headRecord is the bolthold record holding the latest signed log head.
type headRecord struct {
	Data signed.Message
}

const boltHeadKey = "head"

// LoadDB opens (or creates) the database at path.
func LoadDB(path string) (*DB, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bolt.Options{Timeout: 1 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &DB{bolt: store}, nil
}

// Close releases the underlying bolt database.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// AddUpdate verifies the update against pk and persists its events and signed head in one
// transaction. Events already present are overwritten; since they are hash-chained to the
// verified head, a conflicting event cannot verify.
func (db *DB) AddUpdate(pk *ecdsa.PublicKey, update *Update) error {
	record, err := update.Verify(pk)
	if err != nil {
		return err
	}
	if db.Current != nil && record.Index < db.Current.Index {
		return nil
	}

	err = db.bolt.Bolt().Update(func(tx *bolt.Tx) error {
		for _, event := range update.Events {
			if err := db.bolt.TxUpsert(tx, event.Index, event); err != nil {
				return err
			}
		}
		return db.bolt.TxUpsert(tx, boltHeadKey, &headRecord{Data: update.SignedRecord.Data})
	})
	if err != nil {
		return err
	}

	db.Current = record
	return nil
}

// LoadHead loads the stored signed log record, verifies it against pk and makes it current.
func (db *DB) LoadHead(pk *ecdsa.PublicKey) (*LogRecord, error) {
	head := &headRecord{}
	if err := db.bolt.Get(boltHeadKey, head); err != nil {
		return nil, err
	}
	sr := &SignedRecord{Data: head.Data}
	record, err := sr.UnmarshalVerify(pk)
	if err != nil {
		return nil, err
	}
	db.Current = record
	return record, nil
}

// UpdateSince returns an update carrying all stored events from the given index up to the
// current head, suitable for a witness holder at index-1. The head must have been loaded
// or added first.
func (db *DB) UpdateSince(index uint64) (*Update, error) {
	if db.Current == nil {
		return nil, errors.New("no current log record")
	}

	head := &headRecord{}
	if err := db.bolt.Get(boltHeadKey, head); err != nil {
		return nil, err
	}

	var events []*Event
	if err := db.bolt.Find(&events, bolthold.Where(bolthold.Key).Ge(index).SortBy("Index")); err != nil {
		return nil, err
	}
	if len(events) == 0 && index <= db.Current.Index {
		return nil, errors.New("stored event chain does not reach the requested index")
	}

	return &Update{
		SignedRecord: &SignedRecord{Data: head.Data, Record: db.Current},
		Events:       events,
	}, nil
}

// LatestUpdate returns an update with the last count events.
func (db *DB) LatestUpdate(count uint64) (*Update, error) {
	if db.Current == nil {
		return nil, errors.New("no current log record")
	}
	since := uint64(0)
	if db.Current.Index+1 > count {
		since = db.Current.Index + 1 - count
	}
	return db.UpdateSince(since)
}
