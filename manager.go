package crunchpool

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// managedPool pairs a Pool with the reservation/eviction bookkeeping the
// Manager needs: readers (active users of the pool) take a read lock via
// reserve, so an eviction's write lock in dispose blocks until every
// current user has released it.
type managedPool[W, X any] struct {
	pool         *Pool[W, X]
	deletionLock sync.RWMutex
	disposed     chan struct{}
	createdAt    time.Time
}

func (m *managedPool[W, X]) reserve() bool {
	m.deletionLock.RLock()
	select {
	case <-m.disposed:
		m.deletionLock.RUnlock()
		return false
	default:
		return true
	}
}

func (m *managedPool[W, X]) release() {
	m.deletionLock.RUnlock()
}

func (m *managedPool[W, X]) dispose() {
	m.deletionLock.Lock()
	defer m.deletionLock.Unlock()
	select {
	case <-m.disposed:
		return
	default:
		close(m.disposed)
	}
	_, _ = m.pool.Join()
}

func (m *managedPool[W, X]) age() time.Duration {
	return time.Since(m.createdAt)
}

// Manager is a self-expiring, lazily-constructed cache of named Pools,
// safe for concurrent use. It is meant for long-lived processes that run
// more than one distinct workload concurrently — each workload kind gets
// its own Pool, built once per key and reused (then eventually evicted and
// joined) rather than spun up from scratch on every request.
//
// A Manager holds pools of a single (W, X) instantiation; build a separate
// Manager per workload shape.
type Manager[W, X any] struct {
	cache           *ttlcache.Cache[string, *managedPool[W, X]]
	reservationLock sync.Mutex
	maxLifetime     time.Duration
}

// NewManager builds a Manager.
//
//   - staleExpiration: the cache TTL of each pool. Once it expires the pool
//     is evicted, whether or not a reservation is outstanding; it is joined
//     after every outstanding reservation has been released.
//   - maxLifetime: the max age a pool is allowed to reach. A Get against a
//     key whose pool is older than this removes it from the cache and
//     joins it once its reservations are released; that Get still returns
//     the old pool, and the next Get for the key builds a fresh one.
func NewManager[W, X any](staleExpiration, maxLifetime time.Duration) *Manager[W, X] {
	cache := ttlcache.New[string, *managedPool[W, X]](
		ttlcache.WithTTL[string, *managedPool[W, X]](staleExpiration),
	)
	cache.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *managedPool[W, X]]) {
		item.Value().dispose()
	})
	go cache.Start()

	return &Manager[W, X]{cache: cache, maxLifetime: maxLifetime}
}

// Get returns the Pool cached under key, building one from options/param/
// create/destroy if none exists yet.
//
// The returned channel must be closed by the caller once it is done
// submitting to this pool for now; until then, the pool is not joined. It
// can still be evicted from the cache in the meantime, in which case its
// join waits until the channel is closed.
func (m *Manager[W, X]) Get(key string, options Options, param any, create func(any) W, destroy func(W) X) (*Pool[W, X], chan<- struct{}) {
	m.reservationLock.Lock()

	item := m.cache.Get(key)
	var mp *managedPool[W, X]
	if item != nil {
		mp = item.Value()
	} else {
		mp = &managedPool[W, X]{
			pool:      New(options, param, create, destroy),
			disposed:  make(chan struct{}),
			createdAt: time.Now(),
		}
		m.cache.Set(key, mp, ttlcache.DefaultTTL)
	}

	// reserve takes a read lock preventing dispose from completing until
	// release is called; if it reports false, mp was evicted and disposed
	// between Get and here, so unlock and retry with a fresh pool.
	if !mp.reserve() {
		m.reservationLock.Unlock()
		return m.Get(key, options, param, create, destroy)
	}

	if m.maxLifetime > 0 && mp.age() > m.maxLifetime {
		m.cache.Delete(key)
		go mp.dispose()
	}

	done := make(chan struct{})
	go func() {
		<-done
		mp.release()
	}()

	m.reservationLock.Unlock()
	return mp.pool, done
}

// Close evicts and joins every pool still held by the manager.
func (m *Manager[W, X]) Close() {
	m.cache.DeleteAll()
	m.cache.Stop()
}
