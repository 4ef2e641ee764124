package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medisecure/medisecure-backend/internal/domain/appointment"
	"github.com/medisecure/medisecure-backend/internal/domain/job"
	"github.com/medisecure/medisecure-backend/internal/domain/patient"
	"github.com/medisecure/medisecure-backend/internal/repo/memory"
)

// fakeEnqueuer enforces idempotency keys the way the jobs table does.
type fakeEnqueuer struct {
	mu      sync.Mutex
	created []job.CreateRequest
	keys    map[string]bool
}

func newFakeEnqueuer() *fakeEnqueuer {
	return &fakeEnqueuer{keys: make(map[string]bool)}
}

func (f *fakeEnqueuer) Create(_ context.Context, req job.CreateRequest) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.IdempotencyKey != nil {
		if f.keys[*req.IdempotencyKey] {
			return job.Job{}, &pgconn.PgError{Code: "23505", ConstraintName: "jobs_idempotency_key_key"}
		}
		f.keys[*req.IdempotencyKey] = true
	}

	f.created = append(f.created, req)
	return job.New(req), nil
}

func seedReminderFixture(t *testing.T) (*memory.AppointmentsRepo, *memory.PatientsRepo, patient.Patient) {
	t.Helper()

	appts := memory.NewAppointmentsRepo()
	patients := memory.NewPatientsRepo()

	p, err := patients.Create(context.Background(), patient.Patient{
		FirstName: "Ada",
		LastName:  "Nwosu",
		Email:     "ada@example.com",
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	return appts, patients, p
}

func seedAppointment(t *testing.T, appts *memory.AppointmentsRepo, patientID string, start time.Time, status appointment.Status) appointment.Appointment {
	t.Helper()

	a, err := appts.Create(context.Background(), appointment.Appointment{
		PatientID: patientID,
		DoctorID:  "doctor-1",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    status,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return a
}

func TestEnqueueDue(t *testing.T) {
	soon := time.Now().UTC().Add(2 * time.Hour)

	t.Run("enqueues upcoming appointments", func(t *testing.T) {
		appts, patients, p := seedReminderFixture(t)
		a := seedAppointment(t, appts, p.ID, soon, appointment.StatusScheduled)

		enq := newFakeEnqueuer()
		s := NewReminderScheduler(appts, patients, enq, time.Minute, 24*time.Hour, nil)

		n, err := s.EnqueueDue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Fatalf("enqueued = %d, want 1", n)
		}

		req := enq.created[0]
		if req.Type != "appointment.reminder" {
			t.Fatalf("job type = %q", req.Type)
		}
		if req.IdempotencyKey == nil || *req.IdempotencyKey != "appointment:reminder:"+a.ID {
			t.Fatalf("idempotency key = %v", req.IdempotencyKey)
		}
	})

	t.Run("second sweep enqueues nothing new", func(t *testing.T) {
		appts, patients, p := seedReminderFixture(t)
		seedAppointment(t, appts, p.ID, soon, appointment.StatusScheduled)

		enq := newFakeEnqueuer()
		s := NewReminderScheduler(appts, patients, enq, time.Minute, 24*time.Hour, nil)

		if _, err := s.EnqueueDue(context.Background()); err != nil {
			t.Fatalf("first sweep: %v", err)
		}

		n, err := s.EnqueueDue(context.Background())
		if err != nil {
			t.Fatalf("second sweep: %v", err)
		}
		if n != 0 {
			t.Fatalf("second sweep enqueued = %d, want 0", n)
		}
		if len(enq.created) != 1 {
			t.Fatalf("jobs created = %d, want 1", len(enq.created))
		}
	})

	t.Run("skips cancelled and completed", func(t *testing.T) {
		appts, patients, p := seedReminderFixture(t)
		seedAppointment(t, appts, p.ID, soon, appointment.StatusCancelled)
		seedAppointment(t, appts, p.ID, soon.Add(time.Hour), appointment.StatusCompleted)

		enq := newFakeEnqueuer()
		s := NewReminderScheduler(appts, patients, enq, time.Minute, 24*time.Hour, nil)

		n, err := s.EnqueueDue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Fatalf("enqueued = %d, want 0", n)
		}
	})

	t.Run("skips patients without email", func(t *testing.T) {
		appts, patients, _ := seedReminderFixture(t)

		quiet, err := patients.Create(context.Background(), patient.Patient{
			FirstName: "Ben",
			LastName:  "Okafor",
			IsActive:  true,
		})
		if err != nil {
			t.Fatalf("seed patient: %v", err)
		}

		seedAppointment(t, appts, quiet.ID, soon, appointment.StatusScheduled)

		enq := newFakeEnqueuer()
		s := NewReminderScheduler(appts, patients, enq, time.Minute, 24*time.Hour, nil)

		n, err := s.EnqueueDue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Fatalf("enqueued = %d, want 0", n)
		}
	})

	t.Run("ignores appointments outside the window", func(t *testing.T) {
		appts, patients, p := seedReminderFixture(t)
		seedAppointment(t, appts, p.ID, time.Now().UTC().Add(48*time.Hour), appointment.StatusScheduled)

		enq := newFakeEnqueuer()
		s := NewReminderScheduler(appts, patients, enq, time.Minute, 24*time.Hour, nil)

		n, err := s.EnqueueDue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Fatalf("enqueued = %d, want 0", n)
		}
	})
}
