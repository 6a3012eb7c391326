package db

import (
	"context"
	"fmt"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

func runLockKey(runDate time.Time, region string) string {
	return runLockPrefix + domain.Day(runDate).Format(domain.DateLayout) + ":" + region
}

// AcquireRunLock takes a session advisory lock for the (run date, region) pair.
// The lock lives on a dedicated pool connection until release is called.
// It returns ErrRunInProgress when another session holds the lock.
func (db *DB) AcquireRunLock(ctx context.Context, runDate time.Time, region string) (func(), error) {
	key := runLockKey(runDate, region)

	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, fmt.Errorf("try acquire advisory lock: %w", err)
	}

	if !acquired {
		conn.Release()
		return nil, fmt.Errorf("lock %s: %w", key, coreerrors.ErrRunInProgress)
	}

	release := func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock(hashtext($1))", key)
		conn.Release()
	}

	return release, nil
}
