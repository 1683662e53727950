package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"d42inventory/internal/domain"
)

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals v to a nullable JSON string.
// nil and empty slices are stored as NULL.
func marshalToNull(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	if s, ok := v.([]string); ok && len(s) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Time Helpers
// ============================================================================

// created_at is stored as unix nanoseconds so ordering is exact

func timeToUnixNano(t time.Time) int64 {
	return t.UnixNano()
}

func unixNanoToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// ============================================================================
// Snapshot Row Scanner
// ============================================================================

// snapshotRow holds all columns from a snapshot query for scanning
type snapshotRow struct {
	ID          string
	CreatedAt   int64
	DeviceCount int
	HostCount   int
	SkippedJSON sql.NullString
	Inventory   sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match snapshotColumns order exactly:
// id, created_at, device_count, host_count, skipped, inventory
func (r *snapshotRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,          // 1
		&r.CreatedAt,   // 2
		&r.DeviceCount, // 3
		&r.HostCount,   // 4
		&r.SkippedJSON, // 5
		&r.Inventory,   // 6
	}
}

// metaScanArgs is scanArgs without the inventory payload
func (r *snapshotRow) metaScanArgs() []interface{} {
	return r.scanArgs()[:5]
}

// toDomain converts the scanned row to a domain.Snapshot
func (r *snapshotRow) toDomain() (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		ID:          r.ID,
		CreatedAt:   unixNanoToTime(r.CreatedAt),
		DeviceCount: r.DeviceCount,
		HostCount:   r.HostCount,
	}

	if err := unmarshalJSONField(r.SkippedJSON, &snap.Skipped); err != nil {
		return nil, fmt.Errorf("unmarshal skipped: %w", err)
	}
	if r.Inventory.Valid {
		snap.Inventory = json.RawMessage(r.Inventory.String)
	}

	return snap, nil
}

// snapshotColumns returns the column list for snapshot queries
const snapshotColumns = `id, created_at, device_count, host_count, skipped, inventory`

// snapshotInsertArgs prepares arguments for snapshot INSERT/UPSERT
// Returns: id, created_at, device_count, host_count, skipped, inventory
func snapshotInsertArgs(snap *domain.Snapshot) ([]interface{}, error) {
	skippedJSON, err := marshalToNull(snap.Skipped)
	if err != nil {
		return nil, fmt.Errorf("marshal skipped: %w", err)
	}

	return []interface{}{
		snap.ID,
		timeToUnixNano(snap.CreatedAt),
		snap.DeviceCount,
		snap.HostCount,
		skippedJSON,
		string(snap.Inventory),
	}, nil
}
