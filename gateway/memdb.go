package gateway

import (
	"context"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/on-the-ground/geocoin/shared/helper"
)

const (
	kvTable = "kv"
	kvIndex = "id"
)

type entry struct {
	Key   string
	Value string
}

// MemDB is an in-process Gateway. Values live as long as the MemDB does,
// which makes it the gateway of choice for tests and ephemeral sessions.
type MemDB struct {
	db *memdb.MemDB
}

func NewMemDB() (*MemDB, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			kvTable: {
				Name: kvTable,
				Indexes: map[string]*memdb.IndexSchema{
					kvIndex: {
						Name:    kvIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: memdb: %v", ErrPersistence, err)
	}
	return &MemDB{db: db}, nil
}

func (m *MemDB) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrPersistence, key, err)
	}
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(kvTable, kvIndex, key)
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrPersistence, key, err)
	}
	if raw == nil {
		return "", false, nil
	}
	e, err := helper.GetTypedValueOf[*entry](func() (any, error) { return raw, nil })
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrPersistence, key, err)
	}
	return e.Value, true, nil
}

func (m *MemDB) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrPersistence, key, err)
	}
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(kvTable, &entry{Key: key, Value: value}); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrPersistence, key, err)
	}
	txn.Commit()
	return nil
}
