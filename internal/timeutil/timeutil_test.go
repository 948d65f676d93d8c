package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
	if _, err := ParseDate("01/02/2024"); err == nil {
		t.Fatalf("expected error for foreign layout")
	}
}

func TestParseDateIn(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	parsed, err := ParseDateIn("2024-01-02", loc)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if parsed.Location() != loc || parsed.Hour() != 0 {
		t.Fatalf("expected local midnight, got %s", parsed)
	}
	parsed, err = ParseDateIn("2024-01-02", nil)
	if err != nil || parsed.Location() != time.UTC {
		t.Fatalf("expected UTC for nil location, got %s (%v)", parsed, err)
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestSameDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 03:00 UTC on the 6th is still the 5th in New York.
	a := time.Date(2024, 11, 6, 3, 0, 0, 0, time.UTC)
	b := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)

	if !SameDay(a, b, ny) {
		t.Fatalf("expected same local day in New York")
	}
	if SameDay(a, b, time.UTC) {
		t.Fatalf("expected different UTC days")
	}
	if SameDay(a, b, nil) {
		t.Fatalf("expected nil location to compare in each time's own zone")
	}
}

func TestLayouts(t *testing.T) {
	at := time.Date(2024, 11, 5, 20, 5, 0, 0, time.UTC)
	if got := at.Format(ClockLayout); got != "08:05 PM" {
		t.Fatalf("unexpected clock format %s", got)
	}
	if got := at.Format(StartTimeLayout); got != "8:05 PM UTC" {
		t.Fatalf("unexpected start time format %s", got)
	}
}

func TestLoadLocation(t *testing.T) {
	loc, ok := LoadLocation("America/Chicago")
	if !ok || loc.String() != "America/Chicago" {
		t.Fatalf("expected America/Chicago, got %v (ok=%v)", loc, ok)
	}
	for _, name := range []string{"", "Not/AZone"} {
		loc, ok := LoadLocation(name)
		if ok || loc != time.UTC {
			t.Fatalf("expected UTC fallback for %q, got %v (ok=%v)", name, loc, ok)
		}
	}
}
