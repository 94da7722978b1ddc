// Package live publishes full query snapshots to subscribers whenever the
// collections behind a query change.
package live

import (
	"alcyxob/gymdesk/internal/metrics"
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrUnknownFeed is returned when subscribing to a feed that was never registered.
var ErrUnknownFeed = errors.New("unknown live feed")

// DefaultRefreshTimeout bounds a single snapshot fetch triggered by Notify.
const DefaultRefreshTimeout = 5 * time.Second

// FetchFunc returns the complete current result set of a feed.
type FetchFunc func(ctx context.Context) (any, error)

// Snapshot is one full result set pushed to subscribers.
type Snapshot struct {
	Feed string    `json:"feed"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// feed.mutex is held across every fetch and the delivery of its result, so
// subscribers receive snapshots in the order they were read.
type feed struct {
	mutex sync.Mutex
	name  string
	fetch FetchFunc
	deps  map[string]struct{}
	subs  map[*Subscription]struct{}
}

// Hub holds the registered feeds and their subscribers.
type Hub struct {
	mutex          sync.RWMutex
	feeds          map[string]*feed
	refreshTimeout time.Duration
}

func NewHub() *Hub {
	return &Hub{
		feeds:          make(map[string]*feed),
		refreshTimeout: DefaultRefreshTimeout,
	}
}

// Register adds a feed that is re-fetched whenever any of collections changes.
// Registering a name twice replaces the fetch func and dependencies but keeps subscribers.
func (h *Hub) Register(name string, fetch FetchFunc, collections ...string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	deps := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		deps[c] = struct{}{}
	}
	if f, ok := h.feeds[name]; ok {
		f.fetch = fetch
		f.deps = deps
		return
	}
	h.feeds[name] = &feed{name: name, fetch: fetch, deps: deps, subs: make(map[*Subscription]struct{})}
}

// Feeds lists the registered feed names.
func (h *Hub) Feeds() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	names := make([]string, 0, len(h.feeds))
	for name := range h.feeds {
		names = append(names, name)
	}
	return names
}

// Subscribe registers a subscription to the feed, then fetches the current
// snapshot and queues it as the first delivery. The subscription ends when
// Close is called or ctx is done.
func (h *Hub) Subscribe(ctx context.Context, name string) (*Subscription, error) {
	h.mutex.RLock()
	f, ok := h.feeds[name]
	h.mutex.RUnlock()
	if !ok {
		return nil, errors.Wrap(ErrUnknownFeed, name)
	}

	sub := &Subscription{hub: h, feed: name, ch: make(chan Snapshot, 1), done: make(chan struct{})}

	f.mutex.Lock()
	// Registered before the fetch: a write landing during the fetch triggers a
	// refresh that waits for this lock and delivers after the initial snapshot.
	h.mutex.Lock()
	f.subs[sub] = struct{}{}
	h.mutex.Unlock()
	metrics.LiveSubscribers.WithLabelValues(name).Inc()

	data, err := f.fetch(ctx)
	if err != nil {
		f.mutex.Unlock()
		sub.Close()
		return nil, errors.Wrapf(err, "fetch feed %s", name)
	}
	sub.deliver(Snapshot{Feed: name, Data: data, At: time.Now().UTC()})
	f.mutex.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

// Notify re-fetches every feed that depends on one of collections, once per
// feed, and pushes the result to its subscribers. Fetch failures are logged;
// subscribers then keep their previous snapshot.
func (h *Hub) Notify(collections ...string) {
	h.mutex.RLock()
	var targets []*feed
	for _, f := range h.feeds {
		if len(f.subs) == 0 {
			continue
		}
		for _, c := range collections {
			if _, ok := f.deps[c]; ok {
				targets = append(targets, f)
				break
			}
		}
	}
	h.mutex.RUnlock()

	for _, f := range targets {
		h.refresh(f)
	}
}

func (h *Hub) refresh(f *feed) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.refreshTimeout)
	defer cancel()

	data, err := f.fetch(ctx)
	if err != nil {
		metrics.LiveRefreshFailuresTotal.WithLabelValues(f.name).Inc()
		log.Printf("WARN: Failed to refresh live feed %s: %v", f.name, err)
		return
	}
	snap := Snapshot{Feed: f.name, Data: data, At: time.Now().UTC()}

	h.mutex.RLock()
	subs := make([]*Subscription, 0, len(f.subs))
	for s := range f.subs {
		subs = append(subs, s)
	}
	h.mutex.RUnlock()

	for _, s := range subs {
		s.deliver(snap)
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if f, ok := h.feeds[s.feed]; ok {
		if _, present := f.subs[s]; present {
			delete(f.subs, s)
			metrics.LiveSubscribers.WithLabelValues(s.feed).Dec()
		}
	}
}

// Subscription receives snapshots of one feed. Its mailbox holds a single
// snapshot: an undelivered snapshot is replaced by a newer one.
type Subscription struct {
	hub    *Hub
	feed   string
	mutex  sync.Mutex
	ch     chan Snapshot
	done   chan struct{}
	closed bool
}

// C is closed after Close.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

func (s *Subscription) Feed() string {
	return s.feed
}

func (s *Subscription) deliver(snap Snapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	close(s.done)
	s.mutex.Unlock()

	s.hub.remove(s)
}
