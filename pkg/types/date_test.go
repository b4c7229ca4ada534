package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateRoundtrip(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if d.String() != "2026-03-14" {
		t.Fatalf("unexpected string form %q", d.String())
	}

	if _, err := ParseDate("14/03/2026"); err == nil {
		t.Fatal("expected error for malformed date")
	}
	if _, err := ParseDate("2026-13-40"); err == nil {
		t.Fatal("expected error for impossible date")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.January, 2)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `"2026-01-02"` {
		t.Fatalf("unexpected json %s", raw)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"2026-01-02"`), &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != d {
		t.Fatalf("roundtrip mismatch: %v vs %v", back, d)
	}
}

func TestDateBefore(t *testing.T) {
	yesterday := NewDate(2026, time.May, 1)
	today := NewDate(2026, time.May, 2)
	if !yesterday.Before(today) {
		t.Fatal("expected yesterday before today")
	}
	if today.Before(yesterday) {
		t.Fatal("today should not be before yesterday")
	}
	if today.Before(today) {
		t.Fatal("Before must be strict")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2026, time.July, 9, 15, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time failed: %v", err)
	}
	if d.String() != "2026-07-09" {
		t.Fatalf("unexpected date %s", d)
	}

	if err := d.Scan("2026-07-10"); err != nil {
		t.Fatalf("scan string failed: %v", err)
	}
	if d.String() != "2026-07-10" {
		t.Fatalf("unexpected date %s", d)
	}

	// sqlite hands back timestamp text for DATE columns
	if err := d.Scan([]byte("2026-07-11T00:00:00Z")); err != nil {
		t.Fatalf("scan bytes failed: %v", err)
	}
	if d.String() != "2026-07-11" {
		t.Fatalf("unexpected date %s", d)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("scan nil failed: %v", err)
	}
	if !d.IsZero() {
		t.Fatal("expected zero date after nil scan")
	}
}
