package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/logging"
)

// User-facing messages for failed remote operations.
const (
	MsgFetchFailed  = "Failed to fetch products"
	MsgSaveFailed   = "Failed to save product"
	MsgDeleteFailed = "Failed to delete product"
)

// SyncStatus is the outcome class of the most recent remote operation.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncLoading
	SyncError
)

func (s SyncStatus) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncLoading:
		return "loading"
	case SyncError:
		return "error"
	default:
		return fmt.Sprintf("SyncStatus(%d)", int(s))
	}
}

// SyncState pairs a status with the message shown for SyncError.
type SyncState struct {
	Status  SyncStatus
	Message string
}

// Snapshot is a point-in-time copy of the store for rendering.
type Snapshot struct {
	Products            []catalog.Product
	Sync                SyncState
	LastUpdated         time.Time // last successful fetch
	LastError           error
	ConsecutiveFailures int    // consecutive failed fetches
	Seq                 uint64 // sequence number of the fetch the products came from
	Version             uint64 // bumped on every change to the snapshot
}

// OlderThan reports whether s was taken before other. Snapshots read
// concurrently may be delivered out of order; consumers drop the older one.
func (s Snapshot) OlderThan(other Snapshot) bool {
	return s.Version < other.Version
}

// Loading reports whether a fetch is outstanding.
func (s Snapshot) Loading() bool {
	return s.Sync.Status == SyncLoading
}

// ErrorMessage returns the banner text, or "" when there is no error.
func (s Snapshot) ErrorMessage() string {
	if s.Sync.Status != SyncError {
		return ""
	}
	return s.Sync.Message
}

// IsOffline returns true when the API has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Stats summarizes a product list.
type Stats struct {
	Count      int
	TotalValue float64
	Categories int
}

// Stats computes totals over the snapshot's products.
func (s Snapshot) Stats() Stats {
	seen := make(map[catalog.Category]struct{})
	var st Stats
	for _, p := range s.Products {
		st.Count++
		st.TotalValue += p.Price
		seen[p.Category] = struct{}{}
	}
	st.Categories = len(seen)
	return st
}

// Store owns the local product snapshot and its sync state. Every remote read
// and write goes through it; mutations re-fetch the collection on success.
type Store struct {
	remote catalog.Remote
	logger logging.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64 // last fetch sequence handed out
	applied  uint64 // last fetch sequence whose result was applied
}

// NewStore returns an empty, idle store backed by remote.
func NewStore(remote catalog.Remote, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		remote: remote,
		logger: logger.With("component", "store"),
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = cloneProducts(s.snapshot.Products)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Product looks up id in the current snapshot.
func (s *Store) Product(id string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.snapshot.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Refresh re-reads the whole collection. Failures keep the previous products
// and surface as SyncError; the error is also returned for callers that log
// or back off, but nothing else needs to handle it. A result that arrives
// after a newer fetch has already been applied is discarded.
func (s *Store) Refresh(ctx context.Context) error {
	seq := s.beginFetch()
	products, err := s.remote.ListProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.logger.Debug(ctx, "discarding stale fetch", "seq", seq, "applied", s.applied)
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		return nil
	}
	s.applied = seq
	s.snapshot.Version++
	latest := seq == s.issued

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		if latest {
			s.snapshot.Sync = SyncState{Status: SyncError, Message: MsgFetchFailed}
		}
		s.logger.Warn(ctx, "fetch products failed", "seq", seq, "error", err)
		return fmt.Errorf("fetch products: %w", err)
	}

	s.snapshot.Products = s.dedupe(ctx, products)
	s.snapshot.Seq = seq
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	if latest {
		s.snapshot.Sync = SyncState{Status: SyncIdle}
	}
	s.logger.Debug(ctx, "products refreshed", "seq", seq, "count", len(s.snapshot.Products))
	return nil
}

// Create validates draft, posts it and re-fetches the collection.
func (s *Store) Create(ctx context.Context, draft catalog.Draft) error {
	in, err := s.validate(ctx, draft)
	if err != nil {
		return err
	}
	created, err := s.remote.CreateProduct(ctx, in)
	if err != nil {
		s.fail(ctx, MsgSaveFailed, err)
		return fmt.Errorf("create product: %w", err)
	}
	s.logger.Info(ctx, "product created", "id", created.ID, "name", in.Name)
	_ = s.Refresh(ctx)
	return nil
}

// Update validates draft, replaces product id and re-fetches the collection.
func (s *Store) Update(ctx context.Context, id string, draft catalog.Draft) error {
	in, err := s.validate(ctx, draft)
	if err != nil {
		return err
	}
	if _, err := s.remote.UpdateProduct(ctx, id, in); err != nil {
		s.fail(ctx, MsgSaveFailed, err)
		return fmt.Errorf("update product %s: %w", id, err)
	}
	s.logger.Info(ctx, "product updated", "id", id)
	_ = s.Refresh(ctx)
	return nil
}

// Delete removes product id and re-fetches the collection. Callers confirm
// with the user first.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		s.fail(ctx, MsgDeleteFailed, err)
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.logger.Info(ctx, "product deleted", "id", id)
	_ = s.Refresh(ctx)
	return nil
}

func (s *Store) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.snapshot.Version++
	s.snapshot.Sync = SyncState{Status: SyncLoading}
	return s.issued
}

func (s *Store) validate(ctx context.Context, draft catalog.Draft) (catalog.ProductInput, error) {
	in, err := draft.Validate()
	if err == nil {
		return in, nil
	}
	if !errors.Is(err, catalog.ErrValidation) {
		return catalog.ProductInput{}, fmt.Errorf("validate draft: %w", err)
	}
	s.mu.Lock()
	s.snapshot.Version++
	s.snapshot.Sync = SyncState{Status: SyncError, Message: err.Error()}
	s.mu.Unlock()
	s.logger.Debug(ctx, "draft rejected", "error", err)
	return catalog.ProductInput{}, err
}

func (s *Store) fail(ctx context.Context, msg string, err error) {
	s.mu.Lock()
	s.snapshot.Version++
	s.snapshot.Sync = SyncState{Status: SyncError, Message: msg}
	s.snapshot.LastError = err
	s.mu.Unlock()
	s.logger.Warn(ctx, msg, "error", err)
}

// dedupe keeps the first product for each id.
func (s *Store) dedupe(ctx context.Context, products []catalog.Product) []catalog.Product {
	if len(products) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(products))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			s.logger.Warn(ctx, "duplicate product id in response", "id", p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}
