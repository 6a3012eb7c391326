package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

// CreateOrRefreshRun returns the run for (run date, region), creating it when
// missing. An existing run keeps its id and gets its query count refreshed.
func (db *DB) CreateOrRefreshRun(ctx context.Context, runDate time.Time, region string, queryCount int) (*domain.Run, error) {
	var (
		run domain.Run
		id  pgtype.UUID
	)

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO runs (id, run_date, region_code, query_count, video_count)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (run_date, region_code)
		DO UPDATE SET query_count = EXCLUDED.query_count, updated_at = now()
		RETURNING id, run_date, region_code, query_count, video_count, created_at
	`, uuid.New(), domain.Day(runDate), region, queryCount).Scan(
		&id, &run.RunDate, &run.Region, &run.QueryCount, &run.VideoCount, &run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create or refresh run: %w", err)
	}

	run.ID = fromUUID(id)

	return &run, nil
}

// UpdateRunVideoCount sets the number of videos stored for a run.
func (db *DB) UpdateRunVideoCount(ctx context.Context, runID string, videoCount int) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("parse run id %q: %w", runID, coreerrors.ErrInvalidInput)
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE runs SET video_count = $2, updated_at = now() WHERE id = $1
	`, id, videoCount)
	if err != nil {
		return fmt.Errorf("update run video count: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update run video count %s: %w", runID, coreerrors.ErrNotFound)
	}

	return nil
}

func fromUUID(uid pgtype.UUID) string {
	if !uid.Valid {
		return ""
	}

	return uuid.UUID(uid.Bytes).String()
}
