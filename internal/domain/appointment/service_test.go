package appointment

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestValidateTimes(t *testing.T) {
	svc := NewService()
	start := mustTime(t, "2026-09-01T09:00:00Z")

	if err := svc.ValidateTimes(start, start.Add(30*time.Minute)); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}

	if err := svc.ValidateTimes(start, start); !errors.Is(err, ErrInvalidTimes) {
		t.Fatalf("equal start/end should fail, got %v", err)
	}

	if err := svc.ValidateTimes(start, start.Add(-time.Minute)); !errors.Is(err, ErrInvalidTimes) {
		t.Fatalf("end before start should fail, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	svc := NewService()

	booked := []Appointment{
		{
			ID:        "a1",
			StartTime: mustTime(t, "2026-09-01T09:00:00Z"),
			EndTime:   mustTime(t, "2026-09-01T09:30:00Z"),
			Status:    StatusScheduled,
		},
		{
			ID:        "a2",
			StartTime: mustTime(t, "2026-09-01T10:00:00Z"),
			EndTime:   mustTime(t, "2026-09-01T10:30:00Z"),
			Status:    StatusCancelled,
		},
	}

	tests := []struct {
		name      string
		start     string
		end       string
		excludeID string
		want      bool
	}{
		{name: "inside_existing", start: "2026-09-01T09:10:00Z", end: "2026-09-01T09:20:00Z", want: true},
		{name: "exact_match", start: "2026-09-01T09:00:00Z", end: "2026-09-01T09:30:00Z", want: true},
		{name: "partial_tail", start: "2026-09-01T09:15:00Z", end: "2026-09-01T09:45:00Z", want: true},
		{name: "back_to_back_ok", start: "2026-09-01T09:30:00Z", end: "2026-09-01T10:00:00Z", want: false},
		{name: "cancelled_ignored", start: "2026-09-01T10:00:00Z", end: "2026-09-01T10:30:00Z", want: false},
		{name: "exclude_self_on_reschedule", start: "2026-09-01T09:00:00Z", end: "2026-09-01T09:30:00Z", excludeID: "a1", want: false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := svc.Overlaps(booked, mustTime(t, tt.start), mustTime(t, tt.end), tt.excludeID)

			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableSlots(t *testing.T) {
	svc := NewService()
	day := mustTime(t, "2026-09-01T00:00:00Z")

	booked := []Appointment{
		{
			ID:        "a1",
			StartTime: mustTime(t, "2026-09-01T08:00:00Z"),
			EndTime:   mustTime(t, "2026-09-01T08:30:00Z"),
			Status:    StatusConfirmed,
		},
	}

	slots := svc.AvailableSlots(booked, day, 30, 8, 18)

	// 10 hours of 30 minute slots, minus the one taken.
	if len(slots) != 19 {
		t.Fatalf("got %d slots, want 19", len(slots))
	}

	for _, s := range slots {
		if s.Start.Equal(mustTime(t, "2026-09-01T08:00:00Z")) {
			t.Fatalf("booked slot leaked into availability: %+v", s)
		}
		if s.End.Sub(s.Start) != 30*time.Minute {
			t.Fatalf("slot has wrong duration: %+v", s)
		}
	}
}
