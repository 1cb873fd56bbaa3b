package store

import (
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/on-the-ground/geocoin/board"
)

const (
	snapshotTable = "snapshot"
	snapshotIndex = "id"
	// the compound index answers prefix queries; no arguments means every row
	snapshotScan = snapshotIndex + "_prefix"
)

type snapshotRecord struct {
	X       int
	Y       int
	Momento string
}

func snapshotSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			snapshotTable: {
				Name: snapshotTable,
				Indexes: map[string]*memdb.IndexSchema{
					snapshotIndex: {
						Name:   snapshotIndex,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "X"},
								&memdb.IntFieldIndex{Field: "Y"},
							},
						},
					},
				},
			},
		},
	}
}

// knownTable is the durable representation of every cache observed so far:
// cell key to momento text.
type knownTable struct {
	db *memdb.MemDB
}

func newKnownTable() (*knownTable, error) {
	db, err := memdb.NewMemDB(snapshotSchema())
	if err != nil {
		return nil, fmt.Errorf("known table: %w", err)
	}
	return &knownTable{db: db}, nil
}

func (t *knownTable) Load(k board.Key) (string, bool, error) {
	txn := t.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(snapshotTable, snapshotIndex, k.X, k.Y)
	if err != nil {
		return "", false, fmt.Errorf("load snapshot %v: %w", k, err)
	}
	if raw == nil {
		return "", false, nil
	}
	return raw.(*snapshotRecord).Momento, true, nil
}

func (t *knownTable) Store(k board.Key, momento string) error {
	txn := t.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(snapshotTable, &snapshotRecord{X: k.X, Y: k.Y, Momento: momento}); err != nil {
		return fmt.Errorf("store snapshot %v: %w", k, err)
	}
	txn.Commit()
	return nil
}

// StoreAll writes every entry in one transaction.
func (t *knownTable) StoreAll(entries map[board.Key]string) error {
	txn := t.db.Txn(true)
	defer txn.Abort()

	for k, m := range entries {
		if err := txn.Insert(snapshotTable, &snapshotRecord{X: k.X, Y: k.Y, Momento: m}); err != nil {
			return fmt.Errorf("store snapshot %v: %w", k, err)
		}
	}
	txn.Commit()
	return nil
}

// Range visits entries in index order until fn returns false.
func (t *knownTable) Range(fn func(k board.Key, momento string) bool) error {
	txn := t.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(snapshotTable, snapshotScan)
	if err != nil {
		return fmt.Errorf("scan snapshots: %w", err)
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		r := raw.(*snapshotRecord)
		if !fn(board.Key{X: r.X, Y: r.Y}, r.Momento) {
			return nil
		}
	}
	return nil
}

func (t *knownTable) Len() int {
	n := 0
	_ = t.Range(func(board.Key, string) bool {
		n++
		return true
	})
	return n
}

func (t *knownTable) Clear() error {
	txn := t.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(snapshotTable, snapshotScan); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	txn.Commit()
	return nil
}
