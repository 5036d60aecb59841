package board

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State: lifecycle of a board in the registry
type State int

const (
	StateEmpty State = iota
	StateActive
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

type entry struct {
	hub   *Hub
	refs  int
	state State
	timer *time.Timer
	// gen: bumped every time a teardown timer is armed, so a stale timer firing is ignored
	gen uint64
}

// Registry: process-wide map of board id to hub.
// Hubs are created lazily and torn down after a grace period with no references.
type Registry struct {
	mu        sync.Mutex
	hubs      map[string]*entry
	opts      Options
	grace     time.Duration
	maxBoards int
	closed    bool
	log       zerolog.Logger
}

// NewRegistry: maxBoards <= 0 disables the board limit
func NewRegistry(opts Options, grace time.Duration, maxBoards int) *Registry {
	return &Registry{
		hubs:      make(map[string]*entry),
		opts:      opts,
		grace:     grace,
		maxBoards: maxBoards,
		log:       opts.Logger.With().Str("component", "registry").Logger(),
	}
}

// GetOrCreate: returns the board's hub, creating it if needed.
// A hub nobody acquires starts draining right away.
func (r *Registry) GetOrCreate(boardID string) (*Hub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.getOrCreateLocked(boardID)
	if err != nil {
		return nil, err
	}
	return e.hub, nil
}

// Acquire: GetOrCreate plus one reference; the hub stays alive until every reference is released
func (r *Registry) Acquire(boardID string) (*Hub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.getOrCreateLocked(boardID)
	if err != nil {
		return nil, err
	}

	e.refs++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.state != StateActive {
		r.log.Debug().Str("board", boardID).Stringer("from", e.state).Msg("board active")
	}
	e.state = StateActive
	return e.hub, nil
}

// Release: drops one reference taken by Acquire. The last release starts the grace timer.
func (r *Registry) Release(boardID string, hub *Hub) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.hubs[boardID]
	if !ok || e.hub != hub || e.refs == 0 {
		return
	}

	e.refs--
	if e.refs == 0 {
		r.drainLocked(boardID, e)
	}
}

func (r *Registry) getOrCreateLocked(boardID string) (*entry, error) {
	if r.closed {
		return nil, ErrHubClosed
	}
	if e, ok := r.hubs[boardID]; ok {
		return e, nil
	}

	if r.maxBoards > 0 && len(r.hubs) >= r.maxBoards {
		return nil, ErrTooManyBoards
	}

	e := &entry{hub: NewHub(boardID, r.opts)}
	r.hubs[boardID] = e
	r.log.Info().Str("board", boardID).Int("boards", len(r.hubs)).Msg("hub created")

	r.drainLocked(boardID, e)
	return e, nil
}

func (r *Registry) drainLocked(boardID string, e *entry) {
	e.state = StateDraining
	e.gen++
	gen := e.gen
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(r.grace, func() { r.expire(boardID, gen) })
}

func (r *Registry) expire(boardID string, gen uint64) {
	r.mu.Lock()
	e, ok := r.hubs[boardID]
	if !ok || e.gen != gen || e.refs > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.hubs, boardID)
	remaining := len(r.hubs)
	r.mu.Unlock()

	e.hub.Stop()
	r.log.Info().Str("board", boardID).Int("boards", remaining).Msg("hub torn down")
}

// Lookup: the board's hub if one exists, without creating it
func (r *Registry) Lookup(boardID string) (*Hub, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.hubs[boardID]
	if !ok {
		return nil, false
	}
	return e.hub, true
}

// State: StateEmpty for boards without a hub
func (r *Registry) State(boardID string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.hubs[boardID]
	if !ok {
		return StateEmpty
	}
	return e.state
}

// Len: number of live hubs
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.hubs)
}

// Close: stops every hub. Later calls to GetOrCreate and Acquire fail with ErrHubClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	hubs := make([]*Hub, 0, len(r.hubs))
	for id, e := range r.hubs {
		if e.timer != nil {
			e.timer.Stop()
		}
		hubs = append(hubs, e.hub)
		delete(r.hubs, id)
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, h := range hubs {
		wg.Add(1)
		go func(h *Hub) {
			defer wg.Done()
			h.Stop()
		}(h)
	}
	wg.Wait()
	r.log.Info().Int("hubs", len(hubs)).Msg("registry closed")
}
