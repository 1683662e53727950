package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"d42inventory/internal/domain"
	"d42inventory/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

// testSnapshot builds a snapshot created at base+offset
func testSnapshot(id string, base time.Time, offset time.Duration) *domain.Snapshot {
	return &domain.Snapshot{
		ID:          id,
		CreatedAt:   base.Add(offset),
		DeviceCount: 3,
		HostCount:   2,
		Skipped:     []string{"#2"},
		Inventory:   json.RawMessage(`{"all":{"hosts":["sw01","sw02"]}}`),
	}
}

// ============================================================================
// Snapshot Tests
// ============================================================================

func TestSaveAndGetSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	want := testSnapshot("snap-1", base, 0)
	assertNoError(t, repo.SaveSnapshot(ctx, want))

	got, err := repo.GetSnapshot(ctx, "snap-1")
	assertNoError(t, err)

	assertEqual(t, want.ID, got.ID)
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	assertEqual(t, 3, got.DeviceCount)
	assertEqual(t, 2, got.HostCount)
	assertEqual(t, []string{"#2"}, got.Skipped)
	assertEqual(t, string(want.Inventory), string(got.Inventory))
}

func TestSaveSnapshotFillsDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap := &domain.Snapshot{Inventory: json.RawMessage(`{}`)}
	before := time.Now()
	assertNoError(t, repo.SaveSnapshot(ctx, snap))

	if snap.ID == "" {
		t.Fatal("expected generated ID")
	}
	if snap.CreatedAt.Before(before.Add(-time.Second)) {
		t.Errorf("CreatedAt = %v, expected about now", snap.CreatedAt)
	}

	got, err := repo.GetSnapshot(ctx, snap.ID)
	assertNoError(t, err)
	if got.Skipped != nil {
		t.Errorf("Skipped = %v, want nil", got.Skipped)
	}
}

func TestSaveSnapshotRejectsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveSnapshot(ctx, nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
	if err := repo.SaveSnapshot(ctx, &domain.Snapshot{ID: "x"}); err == nil {
		t.Error("expected error for snapshot without inventory")
	}
}

func TestSaveSnapshotUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC()

	snap := testSnapshot("snap-1", base, 0)
	assertNoError(t, repo.SaveSnapshot(ctx, snap))

	snap.HostCount = 9
	snap.Skipped = nil
	assertNoError(t, repo.SaveSnapshot(ctx, snap))

	got, err := repo.GetSnapshot(ctx, "snap-1")
	assertNoError(t, err)
	assertEqual(t, 9, got.HostCount)

	list, err := repo.ListSnapshots(ctx)
	assertNoError(t, err)
	assertEqual(t, 1, len(list))
}

func TestLatestSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.LatestSnapshot(ctx)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("LatestSnapshot on empty db = %v, want ErrNotFound", err)
	}

	base := time.Now().UTC()
	assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot("old", base, -time.Hour)))
	assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot("new", base, 0)))
	assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot("middle", base, -time.Minute)))

	latest, err := repo.LatestSnapshot(ctx)
	assertNoError(t, err)
	assertEqual(t, "new", latest.ID)
}

func TestGetSnapshotNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetSnapshot(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetSnapshot = %v, want ErrNotFound", err)
	}
}

func TestListSnapshots(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"a", "b", "c"} {
		assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot(id, base, time.Duration(i)*time.Second)))
	}

	list, err := repo.ListSnapshots(ctx)
	assertNoError(t, err)

	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
		if s.Inventory != nil {
			t.Errorf("snapshot %s: listing should not load inventory", s.ID)
		}
	}
	assertEqual(t, []string{"c", "b", "a"}, ids)
}

func TestPruneSnapshots(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot(id, base, time.Duration(i)*time.Second)))
	}

	removed, err := repo.PruneSnapshots(ctx, 0)
	assertNoError(t, err)
	assertEqual(t, 0, removed)

	removed, err = repo.PruneSnapshots(ctx, 2)
	assertNoError(t, err)
	assertEqual(t, 3, removed)

	list, err := repo.ListSnapshots(ctx)
	assertNoError(t, err)
	assertEqual(t, 2, len(list))
	assertEqual(t, "e", list[0].ID)
	assertEqual(t, "d", list[1].ID)
}

func TestClearSnapshots(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC()

	assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot("a", base, 0)))
	assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot("b", base, time.Second)))

	removed, err := repo.ClearSnapshots(ctx)
	assertNoError(t, err)
	assertEqual(t, 2, removed)

	_, err = repo.LatestSnapshot(ctx)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("LatestSnapshot after clear = %v, want ErrNotFound", err)
	}
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	repo, err := New(path)
	assertNoError(t, err)
	assertNoError(t, repo.SaveSnapshot(ctx, testSnapshot("persisted", time.Now().UTC(), 0)))
	assertNoError(t, repo.Close())

	reopened, err := New(path)
	assertNoError(t, err)
	defer reopened.Close()

	latest, err := reopened.LatestSnapshot(ctx)
	assertNoError(t, err)
	assertEqual(t, "persisted", latest.ID)
}
