package annotation

import (
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category string
		wantErr  bool
	}{
		{"valid", "hazard", "Hazard", false},
		{"empty text", "", "Hazard", true},
		{"empty category", "hazard", "", true},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.text, KindKeyword, tt.category, "#0000FF", nil)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !a.Enabled {
				t.Error("new annotations must start enabled")
			}
			if a.Text != tt.text || a.Category != tt.category {
				t.Errorf("fields not carried: %+v", a)
			}
		})
	}
}
