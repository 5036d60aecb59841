package object

// Validation limit constants
const (
	MaxIDLength          = 128
	MaxTextLength        = 1000
	MaxDisplayNameLength = 64
	MaxPointsInPath      = 10000
	MaxCoordinate        = 1000000
	MinCoordinate        = -1000000
	MaxStrokeWidth       = 1000
	MaxColorLength       = 50
)

// Defaults applied when an object is created from a partial payload
const (
	DefaultStrokeColor = "#000000"
	DefaultStrokeWidth = 5

	DefaultNoteText   = "New Note"
	DefaultNoteColor  = "#FFFACD"
	DefaultNoteWidth  = 150
	DefaultNoteHeight = 100
)

// =============================================================================
// Stored State
// =============================================================================

//  single point in a stroke
type Point struct {
	X float64 `json:"x" validate:"coord"`
	Y float64 `json:"y" validate:"coord"`
}

// Stroke: freehand line, points in drawing order
type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}

// Note: sticky note
type Note struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// =============================================================================
// Patches (absent fields keep their stored value)
// =============================================================================

type StrokePatch struct {
	Points []Point  `json:"points,omitempty" validate:"omitempty,maxpoints,dive"`
	Color  *string  `json:"color,omitempty" validate:"omitempty,boardcolor"`
	Width  *float64 `json:"width,omitempty" validate:"omitempty,strokewidth"`
}

type NotePatch struct {
	X      *float64 `json:"x,omitempty" validate:"omitempty,coord"`
	Y      *float64 `json:"y,omitempty" validate:"omitempty,coord"`
	Text   *string  `json:"text,omitempty" validate:"omitempty,notetext"`
	Color  *string  `json:"color,omitempty" validate:"omitempty,boardcolor"`
	Width  *float64 `json:"width,omitempty" validate:"omitempty,notesize"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,notesize"`
}

func newStroke(p *StrokePatch) *Stroke {
	s := &Stroke{
		Points: append([]Point(nil), p.Points...),
		Color:  DefaultStrokeColor,
		Width:  DefaultStrokeWidth,
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	return s
}

// merge: appends points when appendPoints is set, otherwise replaces them if sent
func (s *Stroke) merge(p *StrokePatch, appendPoints bool) {
	if appendPoints {
		s.Points = append(s.Points, p.Points...)
	} else if p.Points != nil {
		s.Points = append([]Point(nil), p.Points...)
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
}

func newNote(p *NotePatch) *Note {
	n := &Note{
		Text:   DefaultNoteText,
		Color:  DefaultNoteColor,
		Width:  DefaultNoteWidth,
		Height: DefaultNoteHeight,
	}
	n.merge(p)
	return n
}

func (n *Note) merge(p *NotePatch) {
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Text != nil {
		n.Text = *p.Text
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.Width != nil {
		n.Width = *p.Width
	}
	if p.Height != nil {
		n.Height = *p.Height
	}
}
