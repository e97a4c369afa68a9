// Package repository persists the engine's non-derivable state.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackside/internal/database"
	"github.com/yourusername/trackside/internal/models"
)

// SnapshotRepository stores the single engine snapshot: day index, active
// wager, running totals, and loan state. The day's race card is not stored;
// it regenerates deterministically from the day index.
type SnapshotRepository struct {
	db *database.DB
}

// NewSnapshotRepository creates a snapshot repository
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// EnsureSchema creates the snapshot table if it does not exist
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Pool().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS engine_snapshot (
			id          smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			day_index   integer NOT NULL,
			wager       jsonb,
			totals      jsonb NOT NULL,
			loan        jsonb NOT NULL,
			updated_at  timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

// Save upserts the snapshot
func (r *SnapshotRepository) Save(ctx context.Context, snap models.Snapshot) error {
	totals, err := json.Marshal(snap.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode totals: %w", err)
	}
	loan, err := json.Marshal(snap.Loan)
	if err != nil {
		return fmt.Errorf("failed to encode loan: %w", err)
	}
	var wager []byte
	if snap.Wager != nil {
		if wager, err = json.Marshal(snap.Wager); err != nil {
			return fmt.Errorf("failed to encode wager: %w", err)
		}
	}

	_, err = r.db.Pool().Exec(ctx, `
		INSERT INTO engine_snapshot (id, day_index, wager, totals, loan, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			day_index = EXCLUDED.day_index,
			wager = EXCLUDED.wager,
			totals = EXCLUDED.totals,
			loan = EXCLUDED.loan,
			updated_at = now()`,
		snap.DayIndex, wager, totals, loan)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot, returning models.ErrNoSnapshot when none was
// ever saved
func (r *SnapshotRepository) Load(ctx context.Context) (models.Snapshot, error) {
	var (
		snap   models.Snapshot
		wager  []byte
		totals []byte
		loan   []byte
	)

	row := r.db.Pool().QueryRow(ctx,
		`SELECT day_index, wager, totals, loan FROM engine_snapshot WHERE id = 1`)
	if err := row.Scan(&snap.DayIndex, &wager, &totals, &loan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Snapshot{}, models.ErrNoSnapshot
		}
		return models.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := json.Unmarshal(totals, &snap.Totals); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode totals: %w", err)
	}
	if err := json.Unmarshal(loan, &snap.Loan); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode loan: %w", err)
	}
	if len(wager) > 0 {
		snap.Wager = &models.Wager{}
		if err := json.Unmarshal(wager, snap.Wager); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to decode wager: %w", err)
		}
	}

	return snap, nil
}
