package store

import (
	"testing"
	"time"
)

func TestOrderNumberPrefix(t *testing.T) {
	at := time.Date(2026, time.September, 1, 14, 30, 0, 0, time.UTC)
	if got := OrderNumberPrefix(at); got != "SP260901" {
		t.Fatalf("expected SP260901, got %s", got)
	}
	// single-digit month and day are zero-padded
	at = time.Date(2027, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := OrderNumberPrefix(at); got != "SP270305" {
		t.Fatalf("expected SP270305, got %s", got)
	}
}

func TestFormatOrderNumber(t *testing.T) {
	if got := FormatOrderNumber("SP260901", 1); got != "SP2609010001" {
		t.Fatalf("expected SP2609010001, got %s", got)
	}
	if got := FormatOrderNumber("SP260901", 1234); got != "SP2609011234" {
		t.Fatalf("expected SP2609011234, got %s", got)
	}
}

func TestOrderNumberSequence(t *testing.T) {
	if got := OrderNumberSequence("SP2609010042", "SP260901"); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := OrderNumberSequence("SP2608310042", "SP260901"); got != 0 {
		t.Fatalf("expected 0 for other-day number, got %d", got)
	}
	if got := OrderNumberSequence("garbage", "SP260901"); got != 0 {
		t.Fatalf("expected 0 for garbage, got %d", got)
	}
}
