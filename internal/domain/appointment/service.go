package appointment

import "time"

// Service holds the scheduling rules that do not belong to any one
// transport or storage layer.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ValidateTimes rejects ranges whose end is not strictly after the start.
func (s *Service) ValidateTimes(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidTimes
	}
	return nil
}

// Overlaps reports whether the [start, end) range collides with any of
// the given appointments. Cancelled appointments never count, and
// excludeID skips the appointment being rescheduled.
func (s *Service) Overlaps(existing []Appointment, start, end time.Time, excludeID string) bool {
	for _, a := range existing {
		if excludeID != "" && a.ID == excludeID {
			continue
		}

		if a.Status == StatusCancelled {
			continue
		}

		if start.Before(a.EndTime) && end.After(a.StartTime) {
			return true
		}
	}

	return false
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailableSlots slices a working day into fixed-duration slots and
// drops those that collide with an existing non-cancelled appointment.
func (s *Service) AvailableSlots(existing []Appointment, day time.Time, slotMinutes, startHour, endHour int) []Slot {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	if startHour <= 0 {
		startHour = 8
	}
	if endHour <= startHour {
		endHour = 18
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, day.Location())

	step := time.Duration(slotMinutes) * time.Minute

	var free []Slot

	for cur := dayStart; cur.Add(step).Before(dayEnd) || cur.Add(step).Equal(dayEnd); cur = cur.Add(step) {
		slotEnd := cur.Add(step)

		if !s.Overlaps(existing, cur, slotEnd, "") {
			free = append(free, Slot{Start: cur, End: slotEnd})
		}
	}

	return free
}
