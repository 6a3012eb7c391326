package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

// CachedVideoIDs returns the search result ids stored for a query in a run.
// It returns ErrCacheNotFound when the query has not been searched yet.
func (db *DB) CachedVideoIDs(ctx context.Context, runDate time.Time, region, queryName string) ([]string, error) {
	var raw []byte

	err := db.Pool.QueryRow(ctx, `
		SELECT video_ids_json
		FROM query_cache
		WHERE run_date = $1 AND region_code = $2 AND query_name = $3
	`, domain.Day(runDate), region, queryName).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrCacheNotFound
		}

		return nil, fmt.Errorf("get cached video ids: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode cached video ids: %w", err)
	}

	return ids, nil
}

// SaveCachedVideoIDs stores the search result ids for a query in a run.
func (db *DB) SaveCachedVideoIDs(ctx context.Context, runDate time.Time, region, queryName, q string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode cached video ids: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO query_cache (run_date, region_code, query_name, q, video_ids_json, fetched_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (run_date, region_code, query_name)
		DO UPDATE SET q = EXCLUDED.q, video_ids_json = EXCLUDED.video_ids_json, fetched_at = EXCLUDED.fetched_at
	`, domain.Day(runDate), region, queryName, q, raw)
	if err != nil {
		return fmt.Errorf("save cached video ids: %w", err)
	}

	return nil
}
