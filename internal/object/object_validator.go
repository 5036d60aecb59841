package object

import (
	"errors"
	"fmt"
	"html"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/microcosm-cc/bluemonday"
)

// Validator: validation and sanitization of object mutations
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// hex colors only (#rgb or #rrggbb)
	_ = validate.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		_, err := colorful.Hex(fl.Field().String())
		return err == nil
	})
	validate.RegisterAlias("coord", fmt.Sprintf("min=%d,max=%d", MinCoordinate, MaxCoordinate))
	validate.RegisterAlias("notesize", fmt.Sprintf("min=0,max=%d", MaxCoordinate))
	validate.RegisterAlias("strokewidth", fmt.Sprintf("min=0,max=%d", MaxStrokeWidth))
	validate.RegisterAlias("maxpoints", fmt.Sprintf("max=%d", MaxPointsInPath))
	validate.RegisterAlias("boardcolor", fmt.Sprintf("max=%d,color", MaxColorLength))
	validate.RegisterAlias("notetext", fmt.Sprintf("max=%d", MaxTextLength))

	return &Validator{
		validate:  validate,
		sanitizer: bluemonday.StrictPolicy(), // removes all HTML/scripts
	}
}

// ValidateAndSanitize: validates the patch for its variant and strips markup from free-form text.
// Reports whether stripping changed anything the client sent.
func (v *Validator) ValidateAndSanitize(m Mutation) (Mutation, bool, error) {
	if err := m.check(); err != nil {
		return Mutation{}, false, err
	}

	var target any
	switch m.Variant {
	case VariantStroke:
		target = m.Stroke
	case VariantNote:
		target = m.Note
	}

	if err := v.validate.Struct(target); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return Mutation{}, false, formatValidationErrors(validationErrors)
		}
		return Mutation{}, false, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if m.Variant != VariantNote || m.Note.Text == nil {
		return m, false, nil
	}

	// Copy before rewriting so the caller's patch is never aliased
	note := *m.Note
	text := v.SanitizeString(*note.Text)
	if utf8.RuneCountInString(text) > MaxTextLength {
		return Mutation{}, false, fmt.Errorf("%w: 'Text' value out of allowed range", ErrInvalidPayload)
	}
	changed := text != *note.Text
	note.Text = &text
	m.Note = &note
	return m, changed, nil
}

// SanitizeString: strips markup from a client supplied string.
// Entities escaped by the policy are decoded again; clients draw the text literally.
func (v *Validator) SanitizeString(s string) string {
	return html.UnescapeString(v.sanitizer.Sanitize(s))
}

// SanitizeName: SanitizeString capped at MaxDisplayNameLength runes
func (v *Validator) SanitizeName(s string) string {
	name := v.SanitizeString(s)
	if utf8.RuneCountInString(name) <= MaxDisplayNameLength {
		return name
	}
	return string([]rune(name)[:MaxDisplayNameLength])
}

// ValidColor: reports whether s parses as a hex color
func (v *Validator) ValidColor(s string) bool {
	return v.validate.Var(s, "boardcolor") == nil
}

// formatValidationErrors converts validator errors to a user-friendly error message
func formatValidationErrors(errs validator.ValidationErrors) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, formatSingleError(errs[0])) // first error is enough
}

// formatSingleError formats a single validation error with common cases
func formatSingleError(err validator.FieldError) string {
	field := err.Field()

	switch err.ActualTag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "min", "max":
		return fmt.Sprintf("'%s' value out of allowed range", field)
	case "color":
		return fmt.Sprintf("'%s' must be a hex color", field)
	default:
		return fmt.Sprintf("'%s' is invalid", field)
	}
}
