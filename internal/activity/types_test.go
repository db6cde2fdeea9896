package activity

import (
	"errors"
	"testing"
)

func validSuggestion() Suggestion {
	return Suggestion{
		Title:       "Sunset picnic",
		Description: "Pack a blanket and snacks and watch the sunset at the park.",
		Category:    "Romantic",
		Cost:        CostLow,
		Duration:    "2 hours",
	}
}

func TestSuggestion_SameAs(t *testing.T) {
	a := validSuggestion()
	b := a
	b.Category = "Relaxation"
	b.Tip = "bring a speaker"

	if !a.SameAs(b) {
		t.Error("suggestions with equal title and description should be the same")
	}

	b.Description = "different"
	if a.SameAs(b) {
		t.Error("different description should not be the same")
	}
}

func TestFilters_Unset(t *testing.T) {
	f := Filters{Category: "any", Budget: "Any", Setting: "either"}
	if !f.CategoryUnset() || !f.BudgetUnset() || !f.SettingUnset() {
		t.Errorf("expected all fields unset: %+v", f)
	}

	f = Filters{Category: "Foodie", Budget: CostMedium, Setting: SettingIndoor}
	if f.CategoryUnset() || f.BudgetUnset() || f.SettingUnset() {
		t.Errorf("expected all fields set: %+v", f)
	}
}

func TestParseInteractionType(t *testing.T) {
	tests := []struct {
		in      string
		want    InteractionType
		wantErr bool
	}{
		{"saved", InteractionSaved, false},
		{" Completed ", InteractionCompleted, false},
		{"skipped", InteractionSkipped, false},
		{"not-interested", InteractionNotInterested, false},
		{"not_interested", InteractionNotInterested, false},
		{"loved", "", true},
	}

	for _, tt := range tests {
		got, err := ParseInteractionType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseInteractionType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInteractionType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(validSuggestion()); err != nil {
		t.Fatalf("valid suggestion rejected: %v", err)
	}

	bad := validSuggestion()
	bad.Title = "   "
	bad.Cost = "cheap"

	err := Validate(bad)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if len(schemaErr.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %+v", schemaErr.Fields)
	}
}

func TestValidateInteraction(t *testing.T) {
	if err := ValidateInteraction(InteractionSaved, 0); err != nil {
		t.Errorf("unrated interaction rejected: %v", err)
	}
	if err := ValidateInteraction(InteractionCompleted, 5); err != nil {
		t.Errorf("rating 5 rejected: %v", err)
	}
	if err := ValidateInteraction(InteractionSkipped, 6); !errors.Is(err, ErrInvalidInteraction) {
		t.Errorf("expected ErrInvalidInteraction for rating 6, got %v", err)
	}
	if err := ValidateInteraction("meh", 0); !errors.Is(err, ErrInvalidInteraction) {
		t.Errorf("expected ErrInvalidInteraction for unknown type, got %v", err)
	}
}
