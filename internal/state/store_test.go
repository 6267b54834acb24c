package state

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/devserver"
	"github.com/five82/shelf/internal/logging"
)

// fakeRemote is an in-process catalog.Remote with scriptable list results.
type fakeRemote struct {
	mu        sync.Mutex
	products  []catalog.Product
	lists     int
	writes    int
	listFn    func(call int) ([]catalog.Product, error)
	createErr error
	deleteErr error
	nextID    int
}

func (f *fakeRemote) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	f.lists++
	call := f.lists
	fn := f.listFn
	current := append([]catalog.Product(nil), f.products...)
	f.mu.Unlock()
	if fn != nil {
		return fn(call)
	}
	return current, nil
}

func (f *fakeRemote) CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.createErr != nil {
		return catalog.Product{}, f.createErr
	}
	f.nextID++
	p := catalog.Product{
		ID:          fmt.Sprintf("id-%d", f.nextID),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
	}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeRemote) UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name = in.Name
			f.products[i].Price = in.Price
			f.products[i].Description = in.Description
			f.products[i].Category = in.Category
			return f.products[i], nil
		}
	}
	return catalog.Product{}, &catalog.ServerError{Method: http.MethodPut, StatusCode: http.StatusNotFound}
}

func (f *fakeRemote) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRemote) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func pen() catalog.Draft {
	return catalog.Draft{Name: "Pen", Price: "1.50", Description: "Blue pen", Category: "General"}
}

func TestStore_RefreshAndSnapshotClone(t *testing.T) {
	remote := &fakeRemote{products: []catalog.Product{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}}
	s := NewStore(remote, logging.Nop())

	before := time.Now()
	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, SyncIdle, snap.Sync.Status)
	assert.False(t, snap.LastUpdated.Before(before))
	assert.Nil(t, snap.LastError)
	assert.Equal(t, uint64(1), snap.Seq)

	// Returned snapshot should be independent of the stored one.
	snap.Products[0].Name = "mutated"
	assert.Equal(t, "A", s.Snapshot().Products[0].Name)
}

func TestStore_RefreshErrorKeepsPreviousData(t *testing.T) {
	remote := &fakeRemote{products: []catalog.Product{{ID: "1", Name: "A"}}}
	s := NewStore(remote, logging.Nop())
	require.NoError(t, s.Refresh(context.Background()))

	origErr := errors.New("boom")
	remote.listFn = func(int) ([]catalog.Product, error) { return nil, origErr }
	require.Error(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "A", snap.Products[0].Name)
	assert.Equal(t, SyncState{Status: SyncError, Message: MsgFetchFailed}, snap.Sync)
	assert.Equal(t, MsgFetchFailed, snap.ErrorMessage())
	require.Error(t, snap.LastError)
	assert.NotEqual(t, reflect.ValueOf(origErr).Pointer(), reflect.ValueOf(snap.LastError).Pointer(),
		"Snapshot should clone error instance")
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	remote := &fakeRemote{}
	s := NewStore(remote, logging.Nop())
	ctx := context.Background()

	assert.False(t, s.Snapshot().IsOffline())

	remote.listFn = func(int) ([]catalog.Product, error) { return nil, errors.New("down") }
	_ = s.Refresh(ctx)
	assert.Equal(t, 1, s.Snapshot().ConsecutiveFailures)
	assert.False(t, s.Snapshot().IsOffline())

	_ = s.Refresh(ctx)
	assert.True(t, s.Snapshot().IsOffline())

	remote.listFn = nil
	require.NoError(t, s.Refresh(ctx))
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())
	assert.Empty(t, snap.ErrorMessage(), "successful refresh clears the error")
}

func TestStore_ValidationFailsWithoutRemoteCall(t *testing.T) {
	remote := &fakeRemote{}
	s := NewStore(remote, logging.Nop())
	ctx := context.Background()

	negative := pen()
	negative.Price = "-5"
	err := s.Create(ctx, negative)
	require.ErrorIs(t, err, catalog.ErrValidation)

	unnamed := pen()
	unnamed.Name = ""
	err = s.Update(ctx, "1", unnamed)
	require.ErrorIs(t, err, catalog.ErrValidation)

	assert.Equal(t, 0, remote.writeCount())
	assert.Equal(t, SyncError, s.Snapshot().Sync.Status)
	assert.Equal(t, "Product name is required", s.Snapshot().ErrorMessage())
}

func TestStore_CreateFailureLeavesSnapshot(t *testing.T) {
	remote := &fakeRemote{products: []catalog.Product{{ID: "1", Name: "A"}}}
	s := NewStore(remote, logging.Nop())
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	remote.createErr = &catalog.TransportError{Method: http.MethodPost, Err: errors.New("refused")}
	require.Error(t, s.Create(ctx, pen()))

	snap := s.Snapshot()
	assert.Len(t, snap.Products, 1)
	assert.Equal(t, MsgSaveFailed, snap.ErrorMessage())
	assert.Equal(t, 1, remote.lists, "failed write must not trigger a refresh")
}

func TestStore_NewerFetchWinsOverStaleResponse(t *testing.T) {
	remote := &fakeRemote{}
	started := make(chan struct{})
	release := make(chan struct{})
	remote.listFn = func(call int) ([]catalog.Product, error) {
		if call == 1 {
			close(started)
			<-release
			return []catalog.Product{{ID: "stale", Name: "from first fetch"}}, nil
		}
		remote.mu.Lock()
		defer remote.mu.Unlock()
		return append([]catalog.Product(nil), remote.products...), nil
	}
	s := NewStore(remote, logging.Nop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx) }()
	<-started

	require.NoError(t, s.Create(ctx, pen()))
	afterCreate := s.Snapshot()
	require.Len(t, afterCreate.Products, 1)
	assert.Equal(t, "Pen", afterCreate.Products[0].Name)

	close(release)
	require.NoError(t, <-done)

	final := s.Snapshot()
	require.Len(t, final.Products, 1)
	assert.Equal(t, "Pen", final.Products[0].Name, "stale fetch must be discarded")
	assert.Equal(t, afterCreate.Seq, final.Seq)
	assert.Equal(t, SyncIdle, final.Sync.Status)
}

func TestStore_LoadingUntilNewestFetchCompletes(t *testing.T) {
	remote := &fakeRemote{}
	startedA, releaseA := make(chan struct{}), make(chan struct{})
	startedB, releaseB := make(chan struct{}), make(chan struct{})
	remote.listFn = func(call int) ([]catalog.Product, error) {
		switch call {
		case 1:
			close(startedA)
			<-releaseA
			return []catalog.Product{{ID: "a"}}, nil
		default:
			close(startedB)
			<-releaseB
			return []catalog.Product{{ID: "b"}}, nil
		}
	}
	s := NewStore(remote, logging.Nop())
	ctx := context.Background()

	doneA := make(chan error, 1)
	go func() { doneA <- s.Refresh(ctx) }()
	<-startedA
	doneB := make(chan error, 1)
	go func() { doneB <- s.Refresh(ctx) }()
	<-startedB

	close(releaseA)
	require.NoError(t, <-doneA)
	snap := s.Snapshot()
	assert.True(t, snap.Loading(), "older fetch must not end loading while a newer one is in flight")
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "a", snap.Products[0].ID)

	close(releaseB)
	require.NoError(t, <-doneB)
	snap = s.Snapshot()
	assert.Equal(t, SyncIdle, snap.Sync.Status)
	assert.Equal(t, "b", snap.Products[0].ID)
	assert.Equal(t, uint64(2), snap.Seq)
}

func TestStore_DuplicateIDsKeepFirst(t *testing.T) {
	remote := &fakeRemote{products: []catalog.Product{{ID: "1", Name: "first"}, {ID: "1", Name: "second"}, {ID: "2"}}}
	s := NewStore(remote, logging.Nop())
	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, "first", snap.Products[0].Name)

	p, ok := s.Product("1")
	require.True(t, ok)
	assert.Equal(t, "first", p.Name)
	_, ok = s.Product("missing")
	assert.False(t, ok)
}

func TestSnapshot_Stats(t *testing.T) {
	snap := Snapshot{Products: []catalog.Product{
		{ID: "1", Price: 1.5, Category: catalog.CategoryGeneral},
		{ID: "2", Price: 2.25, Category: catalog.CategoryBooks},
		{ID: "3", Price: 10, Category: catalog.CategoryBooks},
	}}
	st := snap.Stats()
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 13.75, st.TotalValue, 1e-9)
	assert.Equal(t, 2, st.Categories)
}

// End-to-end against the HTTP dev server.

func newHTTPStore(t *testing.T) (*Store, *devserver.Server) {
	t.Helper()
	srv := devserver.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	client, err := catalog.NewClient(ts.URL, time.Second)
	require.NoError(t, err)
	return NewStore(client, logging.Nop()), srv
}

func TestStore_HTTPCreateRoundTrip(t *testing.T) {
	s, srv := newHTTPStore(t)
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.Create(ctx, pen()))

	snap := s.Snapshot()
	require.Len(t, snap.Products, 1)
	got := snap.Products[0]
	assert.NotEmpty(t, got.ID, "server assigns the id")
	assert.NotEmpty(t, got.CreatedAt, "server assigns createdAt")
	assert.Equal(t, 1.5, got.Price)
	assert.Equal(t, catalog.CategoryGeneral, got.Category)
	assert.Equal(t, SyncIdle, snap.Sync.Status)
	assert.Equal(t, srv.Products(), snap.Products)
}

func TestStore_HTTPUpdateAndDelete(t *testing.T) {
	s, srv := newHTTPStore(t)
	srv.Seed(catalog.Product{ID: "keep", Name: "Keep", Price: 3, Description: "d", Category: catalog.CategoryFood},
		catalog.Product{ID: "gone", Name: "Gone", Price: 4, Description: "d", Category: catalog.CategoryFood})
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	edit := catalog.DraftFromProduct(s.Snapshot().Products[0])
	edit.Name = "Kept"
	require.NoError(t, s.Update(ctx, "keep", edit))
	p, ok := s.Product("keep")
	require.True(t, ok)
	assert.Equal(t, "Kept", p.Name)

	require.NoError(t, s.Delete(ctx, "gone"))
	_, ok = s.Product("gone")
	assert.False(t, ok)
	assert.Len(t, s.Snapshot().Products, 1)
}

func TestStore_HTTPDeleteFailureKeepsItems(t *testing.T) {
	s, srv := newHTTPStore(t)
	srv.Seed(catalog.Product{ID: "a", Name: "A"}, catalog.Product{ID: "b", Name: "B"})
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))
	before := s.Snapshot().Products

	srv.FailNext(http.MethodDelete, http.StatusInternalServerError)
	err := s.Delete(ctx, "a")
	var serverErr *catalog.ServerError
	require.ErrorAs(t, err, &serverErr)

	snap := s.Snapshot()
	assert.Equal(t, before, snap.Products)
	assert.Equal(t, SyncState{Status: SyncError, Message: MsgDeleteFailed}, snap.Sync)
	assert.Equal(t, 1, srv.Requests(http.MethodGet), "no refresh after a failed delete")
}

func TestStore_HTTPValidationSendsNothing(t *testing.T) {
	s, srv := newHTTPStore(t)
	bad := pen()
	bad.Price = "-5"
	require.ErrorIs(t, s.Create(context.Background(), bad), catalog.ErrValidation)
	assert.Equal(t, 0, srv.Requests(http.MethodPost))
}

func TestStore_VersionOrdersSnapshots(t *testing.T) {
	remote := &fakeRemote{products: []catalog.Product{{ID: "1", Name: "A"}}}
	s := NewStore(remote, logging.Nop())
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	afterFetch := s.Snapshot()

	// A rejected draft leaves the products and fetch sequence alone but is
	// still a newer state.
	bad := pen()
	bad.Name = ""
	require.ErrorIs(t, s.Create(ctx, bad), catalog.ErrValidation)
	afterReject := s.Snapshot()

	assert.Equal(t, afterFetch.Seq, afterReject.Seq)
	assert.True(t, afterFetch.OlderThan(afterReject))
	assert.False(t, afterReject.OlderThan(afterFetch))
	assert.False(t, afterReject.OlderThan(afterReject))
}
