package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"d42inventory/internal/domain"
	"d42inventory/internal/inventory"
	"d42inventory/internal/logging"
	"d42inventory/internal/repository"
)

// ErrCacheDisabled is returned by cache operations when no repository is set
var ErrCacheDisabled = errors.New("inventory cache is disabled")

// DeviceSource supplies the full device collection
type DeviceSource interface {
	FetchAllDevices(ctx context.Context) ([]domain.DeviceRecord, error)
}

// Result is one inventory run
type Result struct {
	Document *inventory.Document
	// Report is zero when the document came from the cache
	Report inventory.Report
	// Snapshot is the stored or served snapshot, nil without a cache
	Snapshot *domain.Snapshot
	Cached   bool
}

// Option configures an InventoryService
type Option func(*InventoryService)

// WithCache stores every built inventory in repo and serves it while it is
// younger than ttl. keep bounds the number of retained snapshots.
func WithCache(repo repository.Repository, ttl time.Duration, keep int) Option {
	return func(s *InventoryService) {
		s.repo = repo
		s.ttl = ttl
		s.keep = keep
	}
}

// WithBuilder replaces the default sequential builder
func WithBuilder(b *inventory.Builder) Option {
	return func(s *InventoryService) {
		s.builder = b
	}
}

// WithLogger sets the service logger
func WithLogger(l *logging.Logger) Option {
	return func(s *InventoryService) {
		s.logger = l
	}
}

// WithClock overrides time.Now for cache freshness checks
func WithClock(now func() time.Time) Option {
	return func(s *InventoryService) {
		s.now = now
	}
}

// InventoryService fetches devices, builds the inventory and manages the
// snapshot cache
type InventoryService struct {
	source  DeviceSource
	repo    repository.Repository
	builder *inventory.Builder
	ttl     time.Duration
	keep    int
	now     func() time.Time
	logger  *logging.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(source DeviceSource, opts ...Option) *InventoryService {
	s := &InventoryService{
		source: source,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = inventory.NewBuilder(inventory.WithLogger(s.logger))
	}
	return s
}

// Inventory returns the current inventory. A fresh cached snapshot is served
// unless refresh is set. A fetch failure is returned as is and no document
// is produced; cache failures are logged and never fatal.
func (s *InventoryService) Inventory(ctx context.Context, refresh bool) (*Result, error) {
	if s.repo != nil && !refresh {
		if res := s.fromCache(ctx); res != nil {
			return res, nil
		}
	}

	records, err := s.source.FetchAllDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	s.logger.Debugf("received %d device records", len(records))

	doc, report, err := s.builder.Build(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("build inventory: %w", err)
	}

	res := &Result{Document: doc, Report: report}
	if s.repo != nil {
		res.Snapshot = s.store(ctx, doc, report)
	}
	return res, nil
}

// HostVars returns the variables of one host, or nil when it is unknown
func (s *InventoryService) HostVars(ctx context.Context, name string, refresh bool) (*inventory.HostVars, error) {
	res, err := s.Inventory(ctx, refresh)
	if err != nil {
		return nil, err
	}
	vars, ok := res.Document.HostVars(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return nil, nil
	}
	return &vars, nil
}

// Snapshots lists cached snapshots, newest first
func (s *InventoryService) Snapshots(ctx context.Context) ([]domain.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrCacheDisabled
	}
	return s.repo.ListSnapshots(ctx)
}

// ClearCache deletes every cached snapshot
func (s *InventoryService) ClearCache(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, ErrCacheDisabled
	}
	return s.repo.ClearSnapshots(ctx)
}

func (s *InventoryService) fromCache(ctx context.Context) *Result {
	snap, err := s.repo.LatestSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("read inventory cache: %v", err)
		}
		return nil
	}

	now := s.now()
	if !snap.Fresh(now, s.ttl) {
		s.logger.Debugf("cached snapshot %s is stale (age %s)", snap.ID, snap.Age(now).Round(time.Second))
		return nil
	}

	doc := inventory.NewDocument()
	if err := json.Unmarshal(snap.Inventory, doc); err != nil {
		s.logger.Warnf("discarding unreadable snapshot %s: %v", snap.ID, err)
		return nil
	}

	s.logger.Debugf("serving cached snapshot %s (age %s)", snap.ID, snap.Age(now).Round(time.Second))
	return &Result{Document: doc, Snapshot: snap, Cached: true}
}

func (s *InventoryService) store(ctx context.Context, doc *inventory.Document, report inventory.Report) *domain.Snapshot {
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Warnf("encode inventory for cache: %v", err)
		return nil
	}

	snap := &domain.Snapshot{
		CreatedAt:   s.now().UTC(),
		DeviceCount: report.Total,
		HostCount:   doc.Len(),
		Skipped:     report.SkippedIDs(),
		Inventory:   data,
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		s.logger.Warnf("write inventory cache: %v", err)
		return nil
	}

	if removed, err := s.repo.PruneSnapshots(ctx, s.keep); err != nil {
		s.logger.Warnf("prune inventory cache: %v", err)
	} else if removed > 0 {
		s.logger.Debugf("pruned %d old snapshots", removed)
	}
	return snap
}
