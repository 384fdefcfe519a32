package weather

import (
	"errors"
	"testing"
)

func TestResolveProducesNormalizedIdentifier(t *testing.T) {
	loc, err := LocationResolver{}.Resolve("RU", "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "Moscow,RU" {
		t.Fatalf("expected %q, got %q", "Moscow,RU", loc.Name)
	}

	// Surrounding whitespace and lower-case country codes are normalized.
	loc, err = LocationResolver{}.Resolve(" ru ", "  Moscow ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "Moscow,RU" {
		t.Fatalf("expected %q, got %q", "Moscow,RU", loc.Name)
	}
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name    string
		country string
		city    string
	}{
		{"country name instead of code", "Russia", "Moscow"},
		{"single letter", "R", "Moscow"},
		{"digit in code", "R1", "Moscow"},
		{"empty country", "", "Moscow"},
		{"empty city", "RU", ""},
		{"whitespace city", "RU", "   "},
	}

	for _, tc := range cases {
		_, err := LocationResolver{}.Resolve(tc.country, tc.city)
		var invalid *InvalidLocationError
		if !errors.As(err, &invalid) {
			t.Errorf("%s: expected InvalidLocationError, got %v", tc.name, err)
		}
	}
}
