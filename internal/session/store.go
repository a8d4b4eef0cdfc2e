package session

import (
	"dashboard/internal/engine"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

var ErrNotFound = errors.New("session not found")

type Options struct {
	// Params.Seed == 0 draws a random seed per session and per refresh.
	Params      engine.Params
	TableRows   int
	TTL         time.Duration
	MaxSessions int
}

// Store keeps every live session in memory. Idle sessions are evicted
// when a new session is created or when they are looked up after their TTL;
// nothing runs in the background.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cache    *engine.SnapshotCache
	opts     Options
	logger   *log.Logger

	now  func() time.Time
	seed func() uint64
}

func NewStore(opts Options, logger *log.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		cache:    engine.NewSnapshotCache(),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		seed:     randomSeed,
	}
}

func randomSeed() uint64 {
	// zero means "unpinned" in Options, never hand it out
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}

func (st *Store) Create() (*Session, error) {
	p := st.opts.Params
	pinned := p.Seed != 0
	if !pinned {
		p.Seed = st.seed()
	}

	now := st.now()
	sess, err := newSession(uuid.NewString(), st.cache, p, pinned, st.opts.TableRows, st.seed, now)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	// insert first so evictions never release the snapshot the new session holds
	st.sessions[sess.ID] = sess
	st.evictLocked(now, sess.ID)
	st.logger.Infof("session %s created (seed %d, %d live)", sess.ID, p.Seed, len(st.sessions))
	return sess, nil
}

func (st *Store) Get(id string) (*Session, error) {
	now := st.now()

	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if st.expired(sess, now) {
		st.mu.Lock()
		if cur, ok := st.sessions[id]; ok && cur == sess {
			st.removeLocked(id, sess)
			st.logger.Debugf("session %s expired", id)
		}
		st.mu.Unlock()
		return nil, ErrNotFound
	}

	sess.touch(now)
	return sess, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return ErrNotFound
	}
	st.removeLocked(id, sess)
	st.logger.Infof("session %s deleted", id)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(sess *Session, now time.Time) bool {
	return st.opts.TTL > 0 && now.Sub(sess.idleSince()) > st.opts.TTL
}

// removeLocked drops the session and, unless another live session uses the
// same signature, its cached snapshot.
func (st *Store) removeLocked(id string, sess *Session) {
	delete(st.sessions, id)

	sig := sess.Params().Signature()
	for _, other := range st.sessions {
		if other.Params().Signature() == sig {
			return
		}
	}
	st.cache.Invalidate(sess.Params())
}

// evictLocked drops expired sessions, then the least recently used ones
// until the store is within MaxSessions. keepID is never evicted.
func (st *Store) evictLocked(now time.Time, keepID string) {
	for id, sess := range st.sessions {
		if id != keepID && st.expired(sess, now) {
			st.removeLocked(id, sess)
			st.logger.Debugf("session %s expired", id)
		}
	}

	if st.opts.MaxSessions <= 0 {
		return
	}
	for len(st.sessions) > st.opts.MaxSessions {
		var oldestID string
		var oldest *Session
		var oldestSeen time.Time
		for id, sess := range st.sessions {
			if id == keepID {
				continue
			}
			if seen := sess.idleSince(); oldest == nil || seen.Before(oldestSeen) {
				oldestID, oldest, oldestSeen = id, sess, seen
			}
		}
		st.removeLocked(oldestID, oldest)
		st.logger.Warnf("session %s evicted, store is full (%d)", oldestID, st.opts.MaxSessions)
	}
}
