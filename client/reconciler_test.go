package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restora/entity"
)

// fakeRemote serves a swappable JSON payload for one resource path.
type fakeRemote struct {
	mu      sync.Mutex
	payload []byte
	hits    atomic.Int32
	srv     *httptest.Server
}

func newFakeRemote(t *testing.T, initial any) *fakeRemote {
	t.Helper()
	f := &fakeRemote{}
	f.set(t, initial)
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(f.payload)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRemote) set(t *testing.T, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	f.mu.Lock()
	f.payload = raw
	f.mu.Unlock()
}

func newMenuReconciler(url string, cache Cache, policy Policy, now func() time.Time, render func([]entity.MenuItem)) *Reconciler[entity.MenuItem] {
	return NewReconciler(NewAPI(url, zerolog.Nop()), cache, zerolog.Nop(), ReconcilerOptions[entity.MenuItem]{
		Kind:   "restora_menu",
		Path:   "/menu",
		Policy: policy,
		ID:     func(m entity.MenuItem) string { return m.ID },
		Token: func(m entity.MenuItem) string {
			return fmt.Sprintf("%s|%s|%g", m.ID, m.Name, m.Price)
		},
		Render: render,
		Now:    now,
	})
}

func TestSyncReplaceIsIdempotent(t *testing.T) {
	remote := newFakeRemote(t, []entity.MenuItem{
		{ID: "a", Name: "Quiche", Price: 520},
		{ID: "b", Name: "Tarte", Price: 300},
	})

	var renders atomic.Int32
	r := newMenuReconciler(remote.srv.URL, newMapCache(), ReplaceWithRemote, time.Now, func([]entity.MenuItem) {
		renders.Add(1)
	})

	r.Sync(context.Background())
	r.Sync(context.Background())
	r.Sync(context.Background())

	items := r.Local()
	require.Len(t, items, 2)
	assert.Equal(t, "Quiche", items[0].Name)
	assert.Equal(t, int32(1), renders.Load(), "an unchanged snapshot renders once, not per poll")
}

func TestRemoteEditWinsAndRerenders(t *testing.T) {
	remote := newFakeRemote(t, []entity.MenuItem{{ID: "a", Name: "Quiche", Price: 520}})

	var renders atomic.Int32
	r := newMenuReconciler(remote.srv.URL, newMapCache(), ReplaceWithRemote, time.Now, func([]entity.MenuItem) {
		renders.Add(1)
	})

	r.Sync(context.Background())
	require.Equal(t, int32(1), renders.Load())

	remote.set(t, []entity.MenuItem{{ID: "a", Name: "Quiche", Price: 540}})
	r.Sync(context.Background())

	items := r.Local()
	require.Len(t, items, 1)
	assert.Equal(t, 540.0, items[0].Price, "the remote edit replaces the stale local copy")
	assert.Equal(t, int32(2), renders.Load(), "a price change moves the fingerprint and re-renders")
}

func TestGraceWindowProtectsLocalCreation(t *testing.T) {
	remote := newFakeRemote(t, []entity.MenuItem{})
	clock := newFakeClock()

	var renders atomic.Int32
	r := newMenuReconciler(remote.srv.URL, newMapCache(), ReplaceWithRemote, clock.Now, func([]entity.MenuItem) {
		renders.Add(1)
	})

	r.Upsert(entity.MenuItem{ID: "new-dish", Name: "Soufflé", Price: 800})
	require.Equal(t, int32(1), renders.Load(), "a local write renders immediately")

	// Five seconds in, a refresh that has not seen the record yet must not
	// wipe it.
	clock.Advance(5 * time.Second)
	r.Sync(context.Background())
	require.Len(t, r.Local(), 1, "a refresh inside the grace window keeps the newborn record")
	assert.Equal(t, int32(1), renders.Load(), "nothing visible changed, so no re-render")

	// Fifteen seconds in the window has lapsed: the remote's word is final.
	clock.Advance(10 * time.Second)
	r.Sync(context.Background())
	assert.Empty(t, r.Local(), "past the grace window the remote snapshot wins")
	assert.Equal(t, int32(2), renders.Load())
}

func TestGraceWindowAckedByRemote(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(t, []entity.MenuItem{{ID: "new-dish", Name: "Soufflé", Price: 800}})

	r := newMenuReconciler(remote.srv.URL, newMapCache(), ReplaceWithRemote, clock.Now, nil)
	r.Upsert(entity.MenuItem{ID: "new-dish", Name: "Soufflé", Price: 800})

	// The remote has observed the creation, so the protection ends even
	// though the window has not elapsed.
	r.Sync(context.Background())
	remote.set(t, []entity.MenuItem{})
	clock.Advance(2 * time.Second)
	r.Sync(context.Background())

	assert.Empty(t, r.Local(), "once acknowledged, a remote deletion is honored immediately")
}

func TestGraceWindowUsesCreationTimestamp(t *testing.T) {
	clock := newFakeClock()
	remote := newFakeRemote(t, []entity.Review{})

	cache := newMapCache()
	// A review written by a previous process: no pending entry, only its
	// own timestamp says how fresh it is.
	fresh := entity.Review{ID: "r1", ItemID: "a", Rating: 5, ReviewerName: "Ada", Text: "Superb",
		Timestamp: clock.Now().Add(-5 * time.Second).UnixMilli()}
	raw, err := json.Marshal([]entity.Review{fresh})
	require.NoError(t, err)
	cache.Set("restora_reviews", raw)

	r := NewReconciler(NewAPI(remote.srv.URL, zerolog.Nop()), cache, zerolog.Nop(), ReconcilerOptions[entity.Review]{
		Kind:      "restora_reviews",
		Path:      "/reviews",
		Policy:    ReplaceWithRemote,
		ID:        func(rv entity.Review) string { return rv.ID },
		CreatedAt: func(rv entity.Review) int64 { return rv.Timestamp },
		Now:       clock.Now,
	})

	r.Sync(context.Background())
	require.Len(t, r.Local(), 1, "a five-second-old review survives a refresh that misses it")

	clock.Advance(10 * time.Second)
	r.Sync(context.Background())
	assert.Empty(t, r.Local(), "an old local-only review is treated as deleted elsewhere")
}

func TestUnionMergeKeepsBothSides(t *testing.T) {
	remote := newFakeRemote(t, []entity.MenuItem{
		{ID: "b", Name: "remote-b", Price: 2},
		{ID: "c", Name: "remote-c", Price: 3},
	})

	r := newMenuReconciler(remote.srv.URL, newMapCache(), UnionMerge, time.Now, nil)
	r.Upsert(entity.MenuItem{ID: "a", Name: "local-a", Price: 1})
	r.Upsert(entity.MenuItem{ID: "b", Name: "local-b", Price: 2})

	r.Sync(context.Background())

	items := r.Local()
	require.Len(t, items, 3, "the union never drops an id from either side")
	byID := make(map[string]entity.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	assert.Equal(t, "local-a", byID["a"].Name)
	assert.Equal(t, "local-b", byID["b"].Name, "the local version wins when both sides have the id")
	assert.Equal(t, "remote-c", byID["c"].Name)
}

func TestOverlappingSyncIsDropped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		entered <- struct{}{}
		<-release
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	r := newMenuReconciler(srv.URL, newMapCache(), ReplaceWithRemote, time.Now, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Sync(context.Background())
	}()
	<-entered

	// A trigger landing while the first pass is still in flight is dropped,
	// not queued.
	r.Sync(context.Background())
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load(), "the overlapping pass never reached the network")
}

func TestCorruptCacheRecovers(t *testing.T) {
	remote := newFakeRemote(t, []entity.MenuItem{{ID: "a", Name: "Quiche", Price: 520}})

	cache := newMapCache()
	cache.Set("restora_menu", []byte(`{not valid json`))

	r := newMenuReconciler(remote.srv.URL, cache, ReplaceWithRemote, time.Now, nil)
	assert.Empty(t, r.Local(), "corrupt cache content reads as an empty collection")

	r.Sync(context.Background())
	items := r.Local()
	require.Len(t, items, 1)
	assert.Equal(t, "Quiche", items[0].Name, "the next sync repairs the cache from the remote snapshot")
}

func TestErrorPayloadIsNoUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"backend unavailable"}`))
	}))
	defer srv.Close()

	r := newMenuReconciler(srv.URL, newMapCache(), ReplaceWithRemote, time.Now, nil)
	r.Upsert(entity.MenuItem{ID: "a", Name: "Quiche", Price: 520})

	r.Sync(context.Background())
	require.Len(t, r.Local(), 1, "a non-array payload never clobbers local data")
}

func TestWriteThroughNeverPulls(t *testing.T) {
	remote := newFakeRemote(t, []entity.MenuItem{{ID: "remote-only", Name: "x", Price: 1}})

	r := newMenuReconciler(remote.srv.URL, newMapCache(), WriteThrough, time.Now, nil)
	r.Sync(context.Background())

	assert.Empty(t, r.Local())
	assert.Equal(t, int32(0), remote.hits.Load(), "a write-through collection never issues a read")
}

func TestDeleteRemovesLocally(t *testing.T) {
	r := newMenuReconciler("http://127.0.0.1:1", newMapCache(), ReplaceWithRemote, time.Now, nil)
	r.Upsert(entity.MenuItem{ID: "a", Name: "Quiche", Price: 520})
	r.Upsert(entity.MenuItem{ID: "b", Name: "Tarte", Price: 300})

	r.Delete("a")

	items := r.Local()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}
