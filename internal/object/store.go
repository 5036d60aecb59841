package object

import (
	"fmt"
	"sort"
)

// Result: outcome of Store.Apply
type Result struct {
	Accepted bool
	Created  bool
	// Object is the stored state after the call (the unchanged state when rejected as stale)
	Object Drawing
}

type entry struct {
	obj Drawing
	seq uint64
}

// Store: object state of one board.
// Not safe for concurrent use; a board hub is its only caller.
type Store struct {
	objects    map[string]*entry
	nextSeq    uint64
	maxObjects int
}

// NewStore: creates an empty store. maxObjects <= 0 disables the object limit.
func NewStore(maxObjects int) *Store {
	return &Store{
		objects:    make(map[string]*entry),
		maxObjects: maxObjects,
	}
}

// Apply: creates the object on first sight (version 1), otherwise merges the mutation in
// place if hint is nil or not behind the stored version. Accepted updates bump the version by one.
func (s *Store) Apply(id string, m Mutation, hint *int64) (Result, error) {
	if err := m.check(); err != nil {
		return Result{}, err
	}

	e, exists := s.objects[id]
	if !exists {
		if s.maxObjects > 0 && len(s.objects) >= s.maxObjects {
			return Result{}, ErrTooManyObjects
		}

		obj := Drawing{ID: id, Variant: m.Variant, Version: 1}
		switch m.Variant {
		case VariantStroke:
			obj.Stroke = newStroke(m.Stroke)
		case VariantNote:
			obj.Note = newNote(m.Note)
		}
		if err := checkLimits(obj); err != nil {
			return Result{}, err
		}

		s.nextSeq++
		s.objects[id] = &entry{obj: obj, seq: s.nextSeq}
		return Result{Accepted: true, Created: true, Object: obj.Clone()}, nil
	}

	if e.obj.Variant != m.Variant {
		return Result{}, fmt.Errorf("%w: %s is a %s, got %s", ErrVariantMismatch, id, e.obj.Variant, m.Variant)
	}

	// Stale write
	if hint != nil && *hint < e.obj.Version {
		return Result{Object: e.obj.Clone()}, nil
	}

	next := e.obj.Clone()
	switch m.Variant {
	case VariantStroke:
		next.Stroke.merge(m.Stroke, hint == nil)
	case VariantNote:
		next.Note.merge(m.Note)
	}
	if err := checkLimits(next); err != nil {
		return Result{}, err
	}

	next.Version = e.obj.Version + 1
	e.obj = next
	return Result{Accepted: true, Object: next.Clone()}, nil
}

// Delete: removes the object, reports whether it existed
func (s *Store) Delete(id string) bool {
	if _, exists := s.objects[id]; !exists {
		return false
	}
	delete(s.objects, id)
	return true
}

// Get: copy of a single object
func (s *Store) Get(id string) (Drawing, bool) {
	e, exists := s.objects[id]
	if !exists {
		return Drawing{}, false
	}
	return e.obj.Clone(), true
}

// Snapshot: copies of all objects in creation order
func (s *Store) Snapshot() []Drawing {
	entries := make([]*entry, 0, len(s.objects))
	for _, e := range s.objects {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Drawing, len(entries))
	for i, e := range entries {
		out[i] = e.obj.Clone()
	}
	return out
}

// Len: number of objects
func (s *Store) Len() int {
	return len(s.objects)
}

func checkLimits(d Drawing) error {
	if d.Stroke != nil && len(d.Stroke.Points) > MaxPointsInPath {
		return fmt.Errorf("%w: stroke %s exceeds %d points", ErrInvalidPayload, d.ID, MaxPointsInPath)
	}
	return nil
}
