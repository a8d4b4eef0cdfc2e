package session

import (
	"dashboard/internal/engine"
	"dashboard/internal/models"
	"slices"
	"sync"
	"time"
)

// Session is one user's dashboard: an immutable snapshot plus the filters
// the user has chosen. Events are applied one at a time. Snapshots live in the
// store's cache, so sessions with the same signature share one.
type Session struct {
	ID string

	mu       sync.Mutex
	params   engine.Params
	pinned   bool
	cache    *engine.SnapshotCache
	filters  models.FilterState
	lastSeen time.Time
	reseed   func() uint64
}

func newSession(id string, cache *engine.SnapshotCache, p engine.Params, pinned bool, rows int, reseed func() uint64, now time.Time) (*Session, error) {
	s := &Session{
		ID:       id,
		params:   p,
		pinned:   pinned,
		cache:    cache,
		lastSeen: now,
		reseed:   reseed,
	}
	snap, err := s.cache.Get(p)
	if err != nil {
		return nil, err
	}
	s.filters = defaultFilters(snap, rows)
	return s, nil
}

// defaultFilters selects everything, like the dashboard widgets do on first load.
func defaultFilters(snap *engine.Snapshot, rows int) models.FilterState {
	f := models.FilterState{
		Categories: slices.Clone(models.Categories),
		Statuses:   slices.Clone(models.Statuses),
		TableRows:  rows,
	}
	if n := len(snap.Series); n > 0 {
		f.Start = snap.Series[0].Date
		f.End = snap.Series[n-1].Date
	}
	return f
}

// Snapshot returns the cached snapshot, generating it after a refresh.
func (s *Session) Snapshot() (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(s.params)
}

func (s *Session) Filters() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFilters(s.filters)
}

// View recomputes the dashboard for the current filters.
func (s *Session) View() (*models.DashboardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Dispatch applies one event and returns the recomputed view.
// A rejected event leaves the session unchanged.
func (s *Session) Dispatch(ev Event) (*models.DashboardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Type == EventRefreshed {
		if err := s.refresh(); err != nil {
			return nil, err
		}
		return s.view()
	}

	next, err := ev.apply(s.filters)
	if err != nil {
		return nil, err
	}
	s.filters = next
	return s.view()
}

// Refresh drops the snapshot and generates a new one. Unless the seed is
// pinned by configuration the new snapshot has fresh random data.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh()
}

func (s *Session) refresh() error {
	p := s.params
	if !s.pinned {
		p.Seed = s.reseed()
	}
	s.cache.Invalidate(s.params)
	snap, err := s.cache.Get(p)
	if err != nil {
		return err
	}
	s.params = p

	// keep the user's selections but follow the new date span
	f := defaultFilters(snap, s.filters.TableRows)
	f.Categories = s.filters.Categories
	f.Statuses = s.filters.Statuses
	s.filters = f
	return nil
}

func (s *Session) view() (*models.DashboardView, error) {
	snap, err := s.cache.Get(s.params)
	if err != nil {
		return nil, err
	}
	return engine.BuildView(snap, cloneFilters(s.filters))
}

// Params is the signature of the session's current snapshot.
func (s *Session) Params() engine.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func cloneFilters(f models.FilterState) models.FilterState {
	f.Categories = slices.Clone(f.Categories)
	f.Statuses = slices.Clone(f.Statuses)
	return f
}
