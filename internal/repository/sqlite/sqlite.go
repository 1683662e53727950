package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"d42inventory/internal/domain"
	"d42inventory/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// In-memory databases exist per connection
	if isMemory(dbPath) {
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(dbPath string) string {
	if isMemory(dbPath) {
		return dbPath
	}
	return dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func isMemory(dbPath string) bool {
	return dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		device_count INTEGER NOT NULL DEFAULT 0,
		host_count INTEGER NOT NULL DEFAULT 0,
		skipped TEXT,
		inventory TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveSnapshot stores snap. A missing ID or CreatedAt is filled in on snap.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	if len(snap.Inventory) == 0 {
		return errors.New("snapshot has no inventory")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	args, err := snapshotInsertArgs(snap)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			device_count = excluded.device_count,
			host_count = excluded.host_count,
			skipped = excluded.skipped,
			inventory = excluded.inventory
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently created snapshot
func (r *Repository) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`)
	return scanSnapshot(row)
}

// GetSnapshot returns one snapshot by id
func (r *Repository) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE id = ?
	`, id)
	return scanSnapshot(row)
}

// ListSnapshots returns snapshot metadata, newest first
func (r *Repository) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, device_count, host_count, skipped
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		var row snapshotRow
		if err := rows.Scan(row.metaScanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snaps, nil
}

// PruneSnapshots deletes all but the newest keep snapshots and returns the
// number removed. keep <= 0 disables pruning.
func (r *Repository) PruneSnapshots(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE id NOT IN (
			SELECT id FROM snapshots
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ClearSnapshots deletes every snapshot and returns the number removed
func (r *Repository) ClearSnapshots(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var sr snapshotRow
	if err := row.Scan(sr.scanArgs()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	return sr.toDomain()
}
