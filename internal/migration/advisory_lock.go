package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
)

// lockKey derives the advisory lock key from the migration namespace so
// it stays stable across releases without a magic constant.
func lockKey() int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte("armonia.migrations"))
	return int64(h.Sum32())
}

// migrationLock holds a session-level Postgres advisory lock for the
// duration of a migration run.
type migrationLock struct {
	db  *sql.DB
	key int64
}

func acquireMigrationLock(ctx context.Context, db *sql.DB) (*migrationLock, error) {
	if db == nil {
		return nil, errors.New("migration lock requires a database handle")
	}

	l := &migrationLock{db: db, key: lockKey()}
	var held bool
	if err := db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&held); err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}
	if !held {
		return nil, errors.New("migrations already running in another process")
	}
	return l, nil
}

func (l *migrationLock) Release(ctx context.Context) error {
	var released bool
	if err := l.db.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", l.key).Scan(&released); err != nil {
		return fmt.Errorf("release migration lock: %w", err)
	}
	if !released {
		return errors.New("migration lock was not held by this session")
	}
	return nil
}
