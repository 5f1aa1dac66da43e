package authclient

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type storageRecord struct {
	bun.BaseModel `bun:"table:session_store,alias:ss"`
	Key           string    `bun:"key,pk" json:"key"`
	Value         string    `bun:"value,notnull" json:"value"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// BunStorage is a durable Storage backed by a Bun database, the client-side
// counterpart of browser local storage: a kv table that survives restarts.
type BunStorage struct {
	db *bun.DB
}

// NewBunStorage wraps an existing Bun handle. Call Init before first use.
func NewBunStorage(db *bun.DB) *BunStorage {
	return &BunStorage{db: db}
}

// OpenSQLiteStorage opens (or creates) a SQLite-backed BunStorage at path
// and ensures the kv table exists.
func OpenSQLiteStorage(ctx context.Context, path string) (*BunStorage, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?cache=shared&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, goerrors.Wrap(err, ErrStorageUnavailable.Category, "unable to open session store")
	}

	storage := NewBunStorage(bun.NewDB(sqldb, sqlitedialect.New()))
	if err := storage.Init(ctx); err != nil {
		return nil, err
	}

	return storage, nil
}

// Init creates the backing table when missing.
func (s *BunStorage) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*storageRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "unable to initialize session store")
	}
	return nil
}

func (s *BunStorage) Get(ctx context.Context, key string) (string, bool, error) {
	record := new(storageRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("key = ?", key).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, ErrStorageUnavailable.Category, "session store read failed").
			WithMetadata(map[string]any{"key": key})
	}

	return record.Value, true, nil
}

func (s *BunStorage) Set(ctx context.Context, key, value string) error {
	record := &storageRecord{Key: key, Value: value, UpdatedAt: time.Now()}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "session store write failed").
			WithMetadata(map[string]any{"key": key})
	}

	return nil
}

func (s *BunStorage) Remove(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*storageRecord)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "session store delete failed").
			WithMetadata(map[string]any{"key": key})
	}
	return nil
}

// Close releases the underlying database handle.
func (s *BunStorage) Close() error {
	return s.db.Close()
}

var _ Storage = (*BunStorage)(nil)
