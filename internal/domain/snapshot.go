package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is a cached inventory run
type Snapshot struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	DeviceCount int             `json:"device_count"`
	HostCount   int             `json:"host_count"`
	Skipped     []string        `json:"skipped,omitempty"`
	Inventory   json.RawMessage `json:"inventory"`
}

// Age returns how old the snapshot is relative to now
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// Fresh reports whether the snapshot is younger than ttl.
// A non-positive ttl never counts as fresh.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return s.Age(now) < ttl
}
