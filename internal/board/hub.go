package board

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"whiteboard/internal/object"
	"whiteboard/internal/persist"
	"whiteboard/internal/presence"
	"whiteboard/internal/protocol"
)

const defaultInboxSize = 256

// Options: per-hub settings, shared by every hub of a registry
type Options struct {
	PresenceTTL time.Duration
	// SweepInterval: how often expired cursors are swept. Zero disables the ticker (tests call Tick).
	SweepInterval  time.Duration
	MaxObjects     int
	MaxSubscribers int
	InboxSize      int
	Now            func() time.Time
	Sink           persist.Sink
	Validator      *object.Validator
	Logger         zerolog.Logger
}

// Stats: point-in-time counters of one hub
type Stats struct {
	Subscribers int `json:"subscribers"`
	Objects     int `json:"objects"`
	Cursors     int `json:"cursors"`
}

// Hub: serialized coordinator of one board.
// Store, tracker and subscribers are touched only by the run goroutine; every
// public method enqueues a closure into the inbox and waits for it to finish.
type Hub struct {
	id          string
	opts        Options
	store       *object.Store
	tracker     *presence.Tracker
	subscribers map[string]*Subscriber
	log         zerolog.Logger

	inbox    chan func()
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewHub: creates the hub and starts its goroutine
func NewHub(id string, opts Options) *Hub {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = persist.Nop{}
	}
	if opts.Validator == nil {
		opts.Validator = object.NewValidator()
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = defaultInboxSize
	}

	h := &Hub{
		id:          id,
		opts:        opts,
		store:       object.NewStore(opts.MaxObjects),
		tracker:     presence.NewTracker(opts.Now),
		subscribers: make(map[string]*Subscriber),
		log:         opts.Logger.With().Str("board", id).Logger(),
		inbox:       make(chan func(), opts.InboxSize),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) ID() string { return h.id }

// Done: closed once the hub goroutine has exited
func (h *Hub) Done() <-chan struct{} { return h.done }

// Stop: terminates the hub and closes every remaining outbox. Pending commands fail with ErrHubClosed.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)

	var tick <-chan time.Time
	if h.opts.SweepInterval > 0 {
		ticker := time.NewTicker(h.opts.SweepInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-h.stop:
			h.shutdown()
			return
		case fn := <-h.inbox:
			fn()
		case <-tick:
			h.sweep()
		}
	}
}

func (h *Hub) shutdown() {
	for id, sub := range h.subscribers {
		close(sub.send)
		delete(h.subscribers, id)
	}
	h.log.Debug().Msg("hub stopped")
}

// do: runs fn on the hub goroutine and waits for it.
// ctx bounds only the enqueue; once accepted, fn always runs unless the hub stops first.
func (h *Hub) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		fn()
		close(finished)
	}

	select {
	case h.inbox <- task:
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-h.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrHubClosed
		}
	}
}

// Join: registers sub and returns the board state it starts from.
// Every broadcast after the snapshot lands in sub's outbox. A subscriber already
// joined under the same client id is replaced silently (its outbox closes).
func (h *Hub) Join(ctx context.Context, sub *Subscriber) (protocol.Snapshot, error) {
	var (
		snap    protocol.Snapshot
		joinErr error
	)
	err := h.do(ctx, func() {
		if old, ok := h.subscribers[sub.ClientID]; ok {
			delete(h.subscribers, old.ClientID)
			close(old.send)
			h.log.Info().Str("client", sub.ClientID).Msg("subscription replaced")
		} else if h.opts.MaxSubscribers > 0 && len(h.subscribers) >= h.opts.MaxSubscribers {
			joinErr = ErrRoomFull
			return
		}

		sub.DisplayName = h.opts.Validator.SanitizeName(sub.DisplayName)
		h.subscribers[sub.ClientID] = sub
		snap = h.snapshot(sub)
		h.log.Debug().Str("client", sub.ClientID).Int("subscribers", len(h.subscribers)).Msg("joined")
	})
	if err != nil {
		return protocol.Snapshot{}, err
	}
	return snap, joinErr
}

func (h *Hub) snapshot(sub *Subscriber) protocol.Snapshot {
	return protocol.Snapshot{
		BoardID:  h.id,
		ClientID: sub.ClientID,
		Color:    sub.Color,
		Objects:  lo.Map(h.store.Snapshot(), func(d object.Drawing, _ int) protocol.ObjectState { return protocol.StateOf(d) }),
		Cursors:  lo.Map(h.tracker.Snapshot(sub.ClientID), func(c presence.Cursor, _ int) protocol.CursorState { return protocol.CursorOf(c) }),
	}
}

// Leave: deregisters sub and announces its cursor removal.
// No-op when sub is no longer the current subscription of its client id (evicted or replaced).
func (h *Hub) Leave(ctx context.Context, sub *Subscriber) error {
	return h.do(ctx, func() {
		if h.subscribers[sub.ClientID] != sub {
			return
		}
		h.drop(sub)
		h.log.Debug().Str("client", sub.ClientID).Int("subscribers", len(h.subscribers)).Msg("left")
	})
}

// HandleObjectMutation: validates and applies one mutation, then broadcasts the resulting state.
// Stale mutations are dropped without a broadcast.
func (h *Hub) HandleObjectMutation(ctx context.Context, clientID, objectID string, m object.Mutation, hint *int64) error {
	var opErr error
	err := h.do(ctx, func() {
		if _, ok := h.subscribers[clientID]; !ok {
			opErr = ErrNotSubscribed
			return
		}

		clean, sanitized, err := h.opts.Validator.ValidateAndSanitize(m)
		if err != nil {
			opErr = err
			return
		}

		res, err := h.store.Apply(objectID, clean, hint)
		if err != nil {
			opErr = err
			return
		}
		if !res.Accepted {
			h.log.Debug().
				Str("client", clientID).
				Str("object", objectID).
				Int64("hint", *hint).
				Int64("version", res.Object.Version).
				Msg("stale mutation dropped")
			return
		}

		h.opts.Sink.ObjectUpdated(h.id, res.Object)

		exclude := clientID
		if echoToOrigin(res, hint, sanitized) {
			exclude = ""
		}
		h.broadcast(protocol.ObjectUpdated{Object: protocol.StateOf(res.Object)}, exclude)
	})
	if err != nil {
		return err
	}
	return opErr
}

// echoToOrigin: the originator's optimistic copy may differ from the stored result
func echoToOrigin(res object.Result, hint *int64, sanitized bool) bool {
	if sanitized {
		return true
	}
	if res.Created {
		return false
	}
	// points were appended to whatever the store held
	if hint == nil {
		return true
	}
	prev := res.Object.Version - 1
	return *hint > prev
}

// HandleObjectDelete: removes the object and tells every subscriber. Deleting an absent id does nothing.
func (h *Hub) HandleObjectDelete(ctx context.Context, clientID, objectID string) error {
	var opErr error
	err := h.do(ctx, func() {
		if _, ok := h.subscribers[clientID]; !ok {
			opErr = ErrNotSubscribed
			return
		}
		if !h.store.Delete(objectID) {
			return
		}
		h.opts.Sink.ObjectDeleted(h.id, objectID)
		h.broadcast(protocol.ObjectDeleted{ObjectID: objectID}, "")
	})
	if err != nil {
		return err
	}
	return opErr
}

// HandleCursorMove: refreshes the client's cursor and broadcasts it to the others.
// Empty or invalid name and color fall back to the values given at join.
func (h *Hub) HandleCursorMove(ctx context.Context, clientID string, pos presence.Position, displayName, color string) error {
	var opErr error
	err := h.do(ctx, func() {
		sub, ok := h.subscribers[clientID]
		if !ok {
			opErr = ErrNotSubscribed
			return
		}

		displayName = h.opts.Validator.SanitizeName(displayName)
		if displayName == "" {
			displayName = sub.DisplayName
		}
		if color == "" || !h.opts.Validator.ValidColor(color) {
			color = sub.Color
		}

		c := h.tracker.Touch(clientID, pos, displayName, color)
		sub.cursorGone = false
		h.broadcast(protocol.CursorUpdated{Cursor: protocol.CursorOf(c)}, clientID)
	})
	if err != nil {
		return err
	}
	return opErr
}

// Tick: runs one presence sweep now
func (h *Hub) Tick(ctx context.Context) error {
	return h.do(ctx, h.sweep)
}

func (h *Hub) sweep() {
	expired := h.tracker.Sweep(h.opts.Now(), h.opts.PresenceTTL)
	for _, id := range expired {
		if sub, ok := h.subscribers[id]; ok {
			if sub.cursorGone {
				continue
			}
			sub.cursorGone = true
		}
		h.log.Debug().Str("client", id).Msg("cursor expired")
		h.broadcast(protocol.CursorRemoved{ClientID: id}, id)
	}
}

// Stats: current counters
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := h.do(ctx, func() {
		s = Stats{
			Subscribers: len(h.subscribers),
			Objects:     h.store.Len(),
			Cursors:     h.tracker.Len(),
		}
	})
	return s, err
}

// broadcast: non-blocking fan-out. Subscribers with a full outbox are evicted afterwards.
func (h *Hub) broadcast(msg protocol.Outbound, exclude string) {
	var laggards []*Subscriber
	for id, sub := range h.subscribers {
		if id == exclude {
			continue
		}
		select {
		case sub.send <- msg:
		default:
			laggards = append(laggards, sub)
		}
	}

	for _, sub := range laggards {
		// an earlier eviction's broadcast may have dropped it already
		if h.subscribers[sub.ClientID] != sub {
			continue
		}
		h.log.Warn().Str("client", sub.ClientID).Msg("outbox full, evicting subscriber")
		h.drop(sub)
	}
}

// drop: removes sub, closes its outbox and announces its cursor removal at most once
func (h *Hub) drop(sub *Subscriber) {
	delete(h.subscribers, sub.ClientID)
	close(sub.send)
	h.tracker.Remove(sub.ClientID)

	if sub.cursorGone {
		return
	}
	sub.cursorGone = true
	h.broadcast(protocol.CursorRemoved{ClientID: sub.ClientID}, sub.ClientID)
}
