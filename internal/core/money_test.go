package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"dot separator", "12.34", 1234},
		{"comma separator", "12,34", 1234},
		{"integer only", "12", 1200},
		{"single decimal digit", "12.5", 1250},
		{"third decimal rounds down", "12.344", 1234},
		{"third decimal rounds up", "12.345", 1235},
		{"leading dot", ".50", 50},
		{"whitespace trimmed", "  7.00  ", 700},
		{"large amount", "999999.99", 99999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimalToCentsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"zero", "0"},
		{"zero decimal", "0.00"},
		{"negative", "-5.00"},
		{"explicit plus", "+5.00"},
		{"letters", "abc"},
		{"two separators", "1.2.3"},
		{"trailing junk", "12.34x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDecimalToCents(tt.input); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.input, err)
			}
		})
	}
}

func TestMoneyDisplay(t *testing.T) {
	if got := (Money{Cents: 1234}).Display(); got != 12.34 {
		t.Errorf("Display() = %v, want 12.34", got)
	}
	if got := (Money{Cents: 0}).Display(); got != 0 {
		t.Errorf("Display() = %v, want 0", got)
	}
}
