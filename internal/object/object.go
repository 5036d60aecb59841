package object

import "errors"

var (
	ErrVariantMismatch = errors.New("object variant mismatch")
	ErrInvalidPayload  = errors.New("invalid object payload")
	ErrTooManyObjects  = errors.New("board at maximum object capacity")
)

// Variant: discriminant of the payload a Drawing carries
type Variant string

const (
	VariantStroke Variant = "stroke"
	VariantNote   Variant = "note"
)

// Valid: reports whether v is a known variant
func (v Variant) Valid() bool {
	return v == VariantStroke || v == VariantNote
}

// Drawing: a versioned object on a board. Exactly one of Stroke or Note is set, matching Variant.
type Drawing struct {
	ID      string
	Variant Variant
	Stroke  *Stroke
	Note    *Note
	Version int64
}

// Payload: returns the variant payload (*Stroke or *Note)
func (d Drawing) Payload() any {
	switch d.Variant {
	case VariantStroke:
		return d.Stroke
	case VariantNote:
		return d.Note
	default:
		return nil
	}
}

// Clone: deep copy, safe to hand out of the store
func (d Drawing) Clone() Drawing {
	out := d
	if d.Stroke != nil {
		s := *d.Stroke
		s.Points = append([]Point(nil), d.Stroke.Points...)
		out.Stroke = &s
	}
	if d.Note != nil {
		n := *d.Note
		out.Note = &n
	}
	return out
}

// Mutation: a partial update for one object. The patch matching Variant must be set.
type Mutation struct {
	Variant Variant
	Stroke  *StrokePatch
	Note    *NotePatch
}

func (m Mutation) check() error {
	switch m.Variant {
	case VariantStroke:
		if m.Stroke == nil {
			return ErrInvalidPayload
		}
	case VariantNote:
		if m.Note == nil {
			return ErrInvalidPayload
		}
	default:
		return ErrInvalidPayload
	}
	return nil
}
