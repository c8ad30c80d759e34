package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Policy decides how the local copy of a collection and the remote copy
// converge.
type Policy int

const (
	// ReplaceWithRemote treats the remote snapshot as authoritative:
	// additions and deletions made elsewhere win, except that a record
	// created locally inside the grace window survives until the remote
	// has had a chance to acknowledge it.
	ReplaceWithRemote Policy = iota
	// UnionMerge keeps everything: ids present in both take the local
	// version, remote-only and local-only ids are both kept.
	UnionMerge
	// WriteThrough collections are never pulled; local writes are pushed
	// in the background and that is all.
	WriteThrough
)

// DefaultGraceWindow protects a just-created local record from being
// merged away by a refresh that has not observed it yet.
const DefaultGraceWindow = 10 * time.Second

// ReconcilerOptions parameterize one collection's reconciler.
type ReconcilerOptions[T any] struct {
	Kind   string // cache key
	Path   string // REST resource, e.g. "/reviews"
	Policy Policy
	Grace  time.Duration // 0 means DefaultGraceWindow

	ID        func(T) string
	CreatedAt func(T) int64     // creation instant in unix ms, 0 when the record has none
	Token     func(T) string    // per-record fingerprint token; defaults to ID
	Less      func(a, b T) bool // render order; nil keeps remote/insertion order
	Render    func([]T)
	Now       func() time.Time // injectable clock for tests
}

// Reconciler keeps one collection's local cache and remote store
// approximately consistent. All local writes go through Upsert/Delete so
// fingerprinting and re-render suppression stay correct.
type Reconciler[T any] struct {
	api   *API
	cache Cache
	log   zerolog.Logger
	opts  ReconcilerOptions[T]

	syncing atomic.Bool // single-flight: an overlapping pass is dropped

	mu              sync.Mutex
	lastFingerprint string
	pending         map[string]time.Time // locally created ids awaiting remote ack
}

func NewReconciler[T any](api *API, cache Cache, log zerolog.Logger, opts ReconcilerOptions[T]) *Reconciler[T] {
	if opts.Grace == 0 {
		opts.Grace = DefaultGraceWindow
	}
	if opts.Token == nil {
		opts.Token = opts.ID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reconciler[T]{
		api:     api,
		cache:   cache,
		log:     log.With().Str("kind", opts.Kind).Logger(),
		opts:    opts,
		pending: make(map[string]time.Time),
	}
}

// Local returns the cached collection. Corrupt or non-array cache content
// yields an empty collection, never an error.
func (r *Reconciler[T]) Local() []T {
	raw, ok := r.cache.Get(r.opts.Kind)
	if !ok || len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := gojson.Unmarshal(raw, &items); err != nil {
		r.log.Warn().Err(err).Msg("corrupt local cache, treating as empty")
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Sync runs one reconciliation pass: fetch the remote snapshot, apply the
// policy, write back when something changed, re-render when the
// fingerprint moved. A pass already in flight drops this one — the next
// trigger picks up whatever was missed.
func (r *Reconciler[T]) Sync(ctx context.Context) {
	if r.opts.Policy == WriteThrough {
		return
	}
	if !r.syncing.CompareAndSwap(false, true) {
		r.log.Debug().Msg("sync already in flight, dropping trigger")
		return
	}
	defer r.syncing.Store(false)

	raw := r.api.Get(ctx, r.opts.Path, nil)
	if raw == nil {
		return // remote unavailable; local data stands
	}
	var remote []T
	if err := gojson.Unmarshal(raw, &remote); err != nil {
		// An error object or other non-array payload is "no update".
		r.log.Warn().Err(err).Msg("remote payload is not a collection, ignoring")
		return
	}

	r.mu.Lock()
	local := r.Local()
	r.ackPending(remote)

	var merged []T
	switch r.opts.Policy {
	case UnionMerge:
		merged = r.unionMerge(local, remote)
	default:
		merged = r.replaceWithRemote(local, remote)
	}
	if r.opts.Less != nil {
		sort.SliceStable(merged, func(i, j int) bool { return r.opts.Less(merged[i], merged[j]) })
	}

	if r.fingerprint(merged) != r.fingerprint(local) {
		r.writeLocal(merged)
	}
	r.mu.Unlock()

	r.maybeRender(merged)
}

// Upsert is the local-first write path: the cache is updated and the UI
// refreshed immediately; pushing the record to the remote store is the
// caller's background concern.
func (r *Reconciler[T]) Upsert(item T) {
	id := r.opts.ID(item)

	r.mu.Lock()
	items := r.Local()
	replaced := false
	for i := range items {
		if r.opts.ID(items[i]) == id {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
		// Protect the newborn record from the next replace pass until the
		// remote store acknowledges it.
		r.pending[id] = r.opts.Now()
	}
	if r.opts.Less != nil {
		sort.SliceStable(items, func(i, j int) bool { return r.opts.Less(items[i], items[j]) })
	}
	r.writeLocal(items)
	r.mu.Unlock()

	r.renderNow(items)
}

// Delete removes a record locally and refreshes the UI; the remote
// deletion happens in the caller's background.
func (r *Reconciler[T]) Delete(id string) {
	r.mu.Lock()
	items := r.Local()
	kept := items[:0]
	for _, item := range items {
		if r.opts.ID(item) != id {
			kept = append(kept, item)
		}
	}
	delete(r.pending, id)
	r.writeLocal(kept)
	r.mu.Unlock()

	r.renderNow(kept)
}

// replaceWithRemote returns the remote snapshot plus any local-only
// record still inside the grace window.
func (r *Reconciler[T]) replaceWithRemote(local, remote []T) []T {
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, item := range remote {
		remoteIDs[r.opts.ID(item)] = struct{}{}
	}

	merged := make([]T, len(remote))
	copy(merged, remote)
	for _, item := range local {
		id := r.opts.ID(item)
		if _, ok := remoteIDs[id]; ok {
			continue
		}
		if r.withinGrace(item) {
			merged = append(merged, item)
		}
	}
	return merged
}

// unionMerge keeps every id from both sides; local wins where both have a
// version.
func (r *Reconciler[T]) unionMerge(local, remote []T) []T {
	localIDs := make(map[string]struct{}, len(local))
	merged := make([]T, len(local))
	copy(merged, local)
	for _, item := range local {
		localIDs[r.opts.ID(item)] = struct{}{}
	}
	for _, item := range remote {
		if _, ok := localIDs[r.opts.ID(item)]; !ok {
			merged = append(merged, item)
		}
	}
	return merged
}

// withinGrace reports whether a local-only record is still protected:
// either we created it here moments ago, or its own creation timestamp is
// inside the window.
func (r *Reconciler[T]) withinGrace(item T) bool {
	now := r.opts.Now()
	if created, ok := r.pending[r.opts.ID(item)]; ok {
		if now.Sub(created) < r.opts.Grace {
			return true
		}
		delete(r.pending, r.opts.ID(item))
	}
	if r.opts.CreatedAt != nil {
		if ts := r.opts.CreatedAt(item); ts > 0 {
			return now.UnixMilli()-ts < r.opts.Grace.Milliseconds()
		}
	}
	return false
}

// ackPending forgets creations the remote store has observed.
func (r *Reconciler[T]) ackPending(remote []T) {
	for _, item := range remote {
		delete(r.pending, r.opts.ID(item))
	}
}

func (r *Reconciler[T]) writeLocal(items []T) {
	raw, err := gojson.Marshal(items)
	if err != nil {
		r.log.Error().Err(err).Msg("encode collection failed")
		return
	}
	r.cache.Set(r.opts.Kind, raw)
}

// fingerprint is the cheap change detector: ordered per-record tokens.
// Identical fingerprints mean a re-render would show the same thing.
func (r *Reconciler[T]) fingerprint(items []T) string {
	tokens := make([]string, len(items))
	for i, item := range items {
		tokens[i] = r.opts.Token(item)
	}
	return strings.Join(tokens, "\n")
}

// maybeRender refreshes the UI only when the fingerprint moved since the
// last render; periodic polling of unchanged data stays invisible.
func (r *Reconciler[T]) maybeRender(items []T) {
	fp := r.fingerprint(items)
	r.mu.Lock()
	if fp == r.lastFingerprint {
		r.mu.Unlock()
		return
	}
	r.lastFingerprint = fp
	r.mu.Unlock()

	if r.opts.Render != nil {
		r.opts.Render(items)
	}
}

// renderNow is the unconditional variant used right after a user action.
func (r *Reconciler[T]) renderNow(items []T) {
	r.mu.Lock()
	r.lastFingerprint = r.fingerprint(items)
	r.mu.Unlock()

	if r.opts.Render != nil {
		r.opts.Render(items)
	}
}
