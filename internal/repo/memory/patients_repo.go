package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medisecure/medisecure-backend/internal/domain/patient"
)

type PatientsRepo struct {
	mu    sync.RWMutex
	items map[string]patient.Patient
}

func NewPatientsRepo() *PatientsRepo {
	return &PatientsRepo{
		items: make(map[string]patient.Patient),
	}
}

func (r *PatientsRepo) Create(_ context.Context, p patient.Patient) (patient.Patient, error) {
	now := time.Now().UTC()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

func (r *PatientsRepo) GetByID(_ context.Context, id string) (patient.Patient, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return patient.Patient{}, patient.ErrNotFound
	}

	return p, nil
}

func (r *PatientsRepo) List(_ context.Context, f patient.ListFilter) ([]patient.Patient, int, error) {
	r.mu.RLock()

	matched := make([]patient.Patient, 0, len(r.items))

	for _, p := range r.items {
		if f.Query != nil {
			q := strings.ToLower(*f.Query)
			if !strings.Contains(strings.ToLower(p.FirstName), q) &&
				!strings.Contains(strings.ToLower(p.LastName), q) {
				continue
			}
		}
		matched = append(matched, p)
	}

	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LastName == matched[j].LastName {
			return matched[i].FirstName < matched[j].FirstName
		}
		return matched[i].LastName < matched[j].LastName
	})

	total := len(matched)

	if f.Offset >= total {
		return []patient.Patient{}, total, nil
	}

	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}

	return matched[f.Offset:end], total, nil
}

func (r *PatientsRepo) Update(_ context.Context, p patient.Patient) (patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[p.ID]
	if !ok {
		return patient.Patient{}, patient.ErrNotFound
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = p

	return p, nil
}

func (r *PatientsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return patient.ErrNotFound
	}

	delete(r.items, id)
	return nil
}
