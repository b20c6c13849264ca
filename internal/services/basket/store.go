package basket

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-storefront/internal/domain"
	"go-storefront/pkg/diagnostics"
	"go-storefront/pkg/tracing"
)

// Catalog supplies the products a buyer can put in the basket.
type Catalog interface {
	List(ctx context.Context) (domain.ProductList, error)
}

type session struct {
	state    *State
	lastSeen time.Time
}

// Store keeps one State per buyer session in memory.
type Store struct {
	mu             sync.Mutex
	sessions       map[string]*session
	catalog        Catalog
	tracer         tracing.Tracer
	paymentMethods []string
	now            func() time.Time
}

func NewStore(catalog Catalog, tracer tracing.Tracer, paymentMethods []string) *Store {
	return &Store{
		sessions:       make(map[string]*session),
		catalog:        catalog,
		tracer:         tracer,
		paymentMethods: paymentMethods,
		now:            time.Now,
	}
}

// Session returns the state of session id with a fresh catalog snapshot.
// An empty or unknown id starts a new session; the id in use is returned.
func (s *Store) Session(ctx context.Context, id string) (string, *State, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.basket.Session")
	defer span.End()

	list, err := s.catalog.List(ctx)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		id = uuid.New().String()
		sess = &session{state: NewState(s.paymentMethods)}
		s.sessions[id] = sess
		diagnostics.BasketSessions.Inc()
	}
	sess.lastSeen = s.now()
	s.mu.Unlock()

	sess.state.SetItems(list.Items)

	return id, sess.state, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (s *Store) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	diagnostics.BasketSessions.Sub(float64(dropped))

	return dropped
}

// Sweeper periodically drops idle sessions from a Store.
type Sweeper struct {
	store    *Store
	maxIdle  time.Duration
	interval time.Duration
	done     chan struct{}
	stopped  sync.WaitGroup
	stopOnce sync.Once
}

func NewSweeper(store *Store, maxIdle, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		maxIdle:  maxIdle,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (w *Sweeper) Start() {
	w.stopped.Add(1)
	go w.run()
}

func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	w.stopped.Wait()
}

func (w *Sweeper) run() {
	defer w.stopped.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if n := w.store.Sweep(w.maxIdle); n > 0 {
				log.Printf("Dropped %d idle basket sessions", n)
			}
		}
	}
}
