package service

import (
	"testing"

	"clinic-appointment-api/internal/domain/entity"
)

func mustSlot(t *testing.T, date, start, end string) entity.Slot {
	t.Helper()
	s, err := entity.NewSlot(date, start, end)
	if err != nil {
		t.Fatalf("NewSlot(%s, %s, %s): %v", date, start, end, err)
	}
	return s
}

func TestParseAvailabilityPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    AvailabilityPolicy
		wantErr bool
	}{
		{in: "", want: PolicyContainment},
		{in: "containment", want: PolicyContainment},
		{in: " EXACT ", want: PolicyExact},
		{in: "fuzzy", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAvailabilityPolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestAvailabilityMatcher_Containment(t *testing.T) {
	m := NewAvailabilityMatcher(PolicyContainment)
	availability := []entity.Slot{
		mustSlot(t, "2025-03-10", "09:00", "12:00"),
		mustSlot(t, "2025-03-10", "08:00", "17:00"),
		mustSlot(t, "2025-03-11", "09:00", "17:00"),
	}

	got, ok := m.FindAvailable(mustSlot(t, "2025-03-10", "09:00", "10:00"), availability)
	if !ok {
		t.Fatal("expected a match")
	}
	if !got.Equal(availability[0]) {
		t.Errorf("expected first match in insertion order, got %s", got)
	}

	got, ok = m.FindAvailable(mustSlot(t, "2025-03-10", "13:00", "14:00"), availability)
	if !ok || !got.Equal(availability[1]) {
		t.Errorf("expected the wide window, got %s (ok=%v)", got, ok)
	}

	if _, ok := m.FindAvailable(mustSlot(t, "2025-03-12", "09:00", "10:00"), availability); ok {
		t.Error("no availability on 2025-03-12")
	}
	if _, ok := m.FindAvailable(mustSlot(t, "2025-03-10", "09:00", "10:00"), nil); ok {
		t.Error("empty availability never matches")
	}
}

func TestAvailabilityMatcher_Exact(t *testing.T) {
	m := NewAvailabilityMatcher(PolicyExact)
	available := mustSlot(t, "2025-03-10", "09:00", "12:00")

	if !m.IsContained(mustSlot(t, "2025-03-10", "9:00", "12:00"), available) {
		t.Error("identical slot should match")
	}
	if m.IsContained(mustSlot(t, "2025-03-10", "09:00", "10:00"), available) {
		t.Error("nested slot must not match the exact policy")
	}
}

func TestNewAvailabilityMatcher_DefaultsToContainment(t *testing.T) {
	if got := NewAvailabilityMatcher("").Policy(); got != PolicyContainment {
		t.Errorf("got %q", got)
	}
}
