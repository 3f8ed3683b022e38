package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StateRunning = "procesando"
	StateDone    = "completado"
	StateFailed  = "error"
)

// Snapshot is the wire view of one tracked process.
type Snapshot struct {
	ID         string  `json:"id"`
	Total      int     `json:"total"`
	Current    int     `json:"actual"`
	Percent    int     `json:"porcentaje"`
	Message    string  `json:"mensaje"`
	State      string  `json:"estado"`
	StartedAt  string  `json:"inicio"`
	FinishedAt string  `json:"fin,omitempty"`
	Elapsed    float64 `json:"tiempo_total,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Registry tracks in-flight processes so clients can poll them by id.
// Entries stay readable after completion until Clear.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Start registers a new process and returns its handle.
func (r *Registry) Start(total int, message string) *Handle {
	h := &Handle{
		id:      uuid.NewString(),
		total:   total,
		message: message,
		state:   StateRunning,
		started: time.Now(),
	}
	r.mu.Lock()
	r.handles[h.id] = h
	r.mu.Unlock()
	return h
}

// Get returns the handle for an id, or nil if unknown.
func (r *Registry) Get(id string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[id]
}

// Clear drops a finished process from the registry.
func (r *Registry) Clear(id string) {
	r.mu.Lock()
	delete(r.handles, id)
	r.mu.Unlock()
}

// EvictFinished drops every process that finished longer than maxAge ago.
// Running processes are never evicted. Returns the number removed.
func (r *Registry) EvictFinished(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, h := range r.handles {
		if h.finishedBefore(cutoff) {
			delete(r.handles, id)
			removed++
		}
	}
	return removed
}

// Run evicts stale finished processes on a ticker until the context is
// cancelled, so a long-running server does not accumulate entries.
func (r *Registry) Run(ctx context.Context, maxAge, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictFinished(maxAge)
		}
	}
}

// Handle is one tracked process. All methods are nil-safe so pipeline code
// can run without a registry attached.
type Handle struct {
	mu       sync.Mutex
	id       string
	total    int
	current  int
	percent  int
	message  string
	state    string
	errMsg   string
	started  time.Time
	finished time.Time
}

// ID returns the process id.
func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

// Update records the current position as a percentage.
func (h *Handle) Update(percent int, message string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	h.percent = percent
	h.current = h.total * percent / 100
	if message != "" {
		h.message = message
	}
}

// Finish marks the process completed.
func (h *Handle) Finish(message string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.percent = 100
	h.current = h.total
	h.state = StateDone
	h.finished = time.Now()
	if message != "" {
		h.message = message
	}
}

// Fail marks the process errored.
func (h *Handle) Fail(err error) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateFailed
	h.finished = time.Now()
	if err != nil {
		h.errMsg = err.Error()
	}
}

// finishedBefore reports whether the process finished before the cutoff.
func (h *Handle) finishedBefore(cutoff time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.finished.IsZero() && h.finished.Before(cutoff)
}

// Snapshot returns the current wire view.
func (h *Handle) Snapshot() Snapshot {
	if h == nil {
		return Snapshot{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s := Snapshot{
		ID:        h.id,
		Total:     h.total,
		Current:   h.current,
		Percent:   h.percent,
		Message:   h.message,
		State:     h.state,
		StartedAt: h.started.Format(time.RFC3339),
		Error:     h.errMsg,
	}
	if !h.finished.IsZero() {
		s.FinishedAt = h.finished.Format(time.RFC3339)
		s.Elapsed = h.finished.Sub(h.started).Seconds()
	}
	return s
}
