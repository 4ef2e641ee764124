package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medisecure/medisecure-backend/internal/domain/appointment"
)

// AppointmentsRepo keeps everything in a map. Used by tests and local
// development without a database.
type AppointmentsRepo struct {
	mu    sync.RWMutex
	items map[string]appointment.Appointment
}

func NewAppointmentsRepo() *AppointmentsRepo {
	return &AppointmentsRepo{
		items: make(map[string]appointment.Appointment),
	}
}

func (r *AppointmentsRepo) Create(_ context.Context, a appointment.Appointment) (appointment.Appointment, error) {
	now := time.Now().UTC()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	r.mu.Lock()
	r.items[a.ID] = a
	r.mu.Unlock()

	return a, nil
}

func (r *AppointmentsRepo) GetByID(_ context.Context, id string) (appointment.Appointment, error) {
	r.mu.RLock()
	a, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return appointment.Appointment{}, appointment.ErrNotFound
	}

	return a, nil
}

func (r *AppointmentsRepo) List(_ context.Context, f appointment.ListFilter) ([]appointment.Appointment, int, error) {
	r.mu.RLock()

	matched := make([]appointment.Appointment, 0, len(r.items))

	for _, a := range r.items {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.From != nil && a.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && a.StartTime.After(*f.To) {
			continue
		}
		matched = append(matched, a)
	}

	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartTime.Equal(matched[j].StartTime) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].StartTime.Before(matched[j].StartTime)
	})

	total := len(matched)

	if f.Offset >= total {
		return []appointment.Appointment{}, total, nil
	}

	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}

	return matched[f.Offset:end], total, nil
}

func (r *AppointmentsRepo) ListForDoctor(_ context.Context, doctorID string, from, to time.Time) ([]appointment.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []appointment.Appointment

	for _, a := range r.items {
		if a.DoctorID != doctorID {
			continue
		}
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})

	return out, nil
}

func (r *AppointmentsRepo) Update(_ context.Context, a appointment.Appointment) (appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[a.ID]
	if !ok {
		return appointment.Appointment{}, appointment.ErrNotFound
	}

	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	r.items[a.ID] = a

	return a, nil
}

func (r *AppointmentsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return appointment.ErrNotFound
	}

	delete(r.items, id)
	return nil
}
