package activity

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError describes one field of a suggestion that failed validation.
type FieldError struct {
	Field string
	Tag   string
}

// SchemaError lists every field that failed validation.
type SchemaError struct {
	Fields []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Tag))
	}
	return "suggestion does not match schema: " + strings.Join(parts, ", ")
}

// Validate checks a generated suggestion against the result schema.
// It returns a *SchemaError when fields are missing or out of range.
func Validate(s Suggestion) error {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Category = strings.TrimSpace(s.Category)

	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate suggestion: %w", err)
	}

	schemaErr := &SchemaError{}
	for _, fe := range verrs {
		schemaErr.Fields = append(schemaErr.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return schemaErr
}

// ValidateInteraction checks a reaction before it enters the ledger.
func ValidateInteraction(t InteractionType, rating int) error {
	if !t.Liked() && !t.Disliked() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInteraction, t)
	}
	if rating < 0 || rating > 5 {
		return fmt.Errorf("%w: rating %d outside 1-5", ErrInvalidInteraction, rating)
	}
	return nil
}
