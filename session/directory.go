package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"embedhttp/internal/logging"
	"embedhttp/internal/metrics"
	"embedhttp/internal/random"

	"github.com/google/uuid"
)

const DefaultMaxInactive = 30 * time.Minute

// Directory is the process-wide session store. Lookup and Create may be
// called from any number of request goroutines.
type Directory struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	ids         random.Random
	maxInactive time.Duration
	now         func() time.Time
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Directory)

func WithMaxInactive(d time.Duration) Option {
	return func(dir *Directory) { dir.maxInactive = d }
}

func WithClock(now func() time.Time) Option {
	return func(dir *Directory) { dir.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(dir *Directory) { dir.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(dir *Directory) { dir.metrics = m }
}

func WithRandom(r random.Random) Option {
	return func(dir *Directory) { dir.ids = r }
}

func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		sessions:    make(map[string]*Session),
		ids:         random.New(),
		maxInactive: DefaultMaxInactive,
		now:         time.Now,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lookup returns the live session stored under id. Unknown, invalidated and
// expired ids all yield (nil, false); expired sessions are dropped on the way.
func (d *Directory) Lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	d.mu.RLock()
	s, ok := d.sessions[id]
	d.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.Expired(d.now()) {
		d.mu.Lock()
		if cur, ok := d.sessions[id]; ok && cur == s {
			delete(d.sessions, id)
			d.metrics.SessionsExpired(1)
		}
		d.mu.Unlock()
		d.logger.Debug("session expired on lookup", "id", id)
		return nil, false
	}
	return s, true
}

// Create stores a new session under a fresh id. It never fails: an id
// collision or an entropy failure just draws another id.
func (d *Directory) Create() *Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	var id string
	for {
		id = d.nextID()
		if _, taken := d.sessions[id]; !taken {
			break
		}
		d.logger.Warn("session id collision, drawing again", "id", id)
	}

	s := newSession(id, d.now(), d.maxInactive, d.remove)
	d.sessions[id] = s
	d.metrics.SessionCreated()
	d.logger.Debug("session created", "id", id)
	return s
}

func (d *Directory) nextID() string {
	id, err := d.ids.ID()
	if err != nil {
		d.logger.Error("session id generation failed, using uuid", "error", err)
		return uuid.NewString()
	}
	return id
}

// Invalidate removes the session stored under id, if any.
func (d *Directory) Invalidate(id string) {
	d.mu.RLock()
	s, ok := d.sessions[id]
	d.mu.RUnlock()
	if ok {
		s.Invalidate()
	}
}

func (d *Directory) remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[id]; ok {
		delete(d.sessions, id)
		d.metrics.SessionsExpired(1)
	}
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (d *Directory) Sweep() int {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for id, s := range d.sessions {
		if s.Expired(now) {
			delete(d.sessions, id)
			removed++
		}
	}
	d.metrics.SessionsExpired(removed)
	return removed
}

// Run sweeps every interval until ctx is done.
func (d *Directory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := d.Sweep(); n > 0 {
				d.logger.Info("expired sessions removed", "count", n, "remaining", d.Len())
			}
		}
	}
}
