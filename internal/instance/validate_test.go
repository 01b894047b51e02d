package instance

import (
	"strings"
	"testing"

	"github.com/avolkov/srvman/internal/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single letter", "a", false},
		{"simple name", "web", false},
		{"max length", strings.Repeat("z", 32), false},
		{"empty", "", true},
		{"too long", strings.Repeat("z", 33), true},
		{"uppercase", "Web", true},
		{"digits", "web1", true},
		{"hyphen", "web-a", true},
		{"underscore", "web_a", true},
		{"cyrillic", "веб", true},
		{"space", "we b", true},
		{"dot", "web.", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateName(%q) = %q, want error", tt.input, got)
				}
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("ValidateName(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.input {
				t.Errorf("ValidateName(%q) = %q, want input unchanged", tt.input, got)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"typical", "8080", 8080, false},
		{"zero", "0", 0, false},
		{"negative accepted here", "-1", -1, false},
		{"out of tcp range accepted here", "99999", 99999, false},
		{"empty", "", 0, true},
		{"letters", "http", 0, true},
		{"float", "80.80", 0, true},
		{"trailing junk", "8080x", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePort(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidatePort(%q) = %d, want error", tt.input, got)
				}
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("ValidatePort(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidatePort(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidatePort(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
