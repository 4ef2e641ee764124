package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/medisecure/medisecure-backend/internal/domain/appointment"
	"github.com/medisecure/medisecure-backend/internal/domain/job"
	"github.com/medisecure/medisecure-backend/internal/domain/patient"
	"github.com/medisecure/medisecure-backend/internal/jobs"
	"github.com/medisecure/medisecure-backend/internal/repo/postgres"
)

type AppointmentsSource interface {
	List(ctx context.Context, f appointment.ListFilter) ([]appointment.Appointment, int, error)
}

type PatientsSource interface {
	GetByID(ctx context.Context, id string) (patient.Patient, error)
}

type JobsEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

// ReminderScheduler periodically finds appointments coming up within the
// lead time and enqueues a reminder for each. Idempotency keys make the
// scan safe to repeat.
type ReminderScheduler struct {
	appts    AppointmentsSource
	patients PatientsSource
	jobs     JobsEnqueuer
	logger   *slog.Logger

	interval time.Duration
	leadTime time.Duration
}

func NewReminderScheduler(appts AppointmentsSource, patients PatientsSource, jobsRepo JobsEnqueuer, interval, leadTime time.Duration, logger *slog.Logger) *ReminderScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if leadTime <= 0 {
		leadTime = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReminderScheduler{
		appts:    appts,
		patients: patients,
		jobs:     jobsRepo,
		logger:   logger,
		interval: interval,
		leadTime: leadTime,
	}
}

func (s *ReminderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.EnqueueDue(ctx)

			if err != nil {
				s.logger.Error("reminder scan failed", "err", err.Error())
				continue
			}

			if n > 0 {
				s.logger.Info("reminders enqueued", "count", n)
			}
		}
	}
}

// EnqueueDue scans one window and returns how many reminders were newly
// enqueued.
func (s *ReminderScheduler) EnqueueDue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	to := now.Add(s.leadTime)

	f := appointment.ListFilter{
		From:  &now,
		To:    &to,
		Limit: 200,
	}

	upcoming, _, err := s.appts.List(ctx, f)
	if err != nil {
		return 0, err
	}

	enqueued := 0

	for _, a := range upcoming {
		if a.Status == appointment.StatusCancelled || a.Status == appointment.StatusCompleted {
			continue
		}

		p, perr := s.patients.GetByID(ctx, a.PatientID)
		if perr != nil {
			s.logger.Error("reminder skipped, patient lookup failed",
				"appointment_id", a.ID,
				"err", perr.Error(),
			)
			continue
		}

		if p.Email == "" {
			continue
		}

		payload := jobs.AppointmentNotifyPayload{
			AppointmentID: a.ID,
			PatientID:     p.ID,
			Email:         p.Email,
			PatientName:   p.FullName(),
			StartTime:     a.StartTime,
		}

		raw, eerr := jobs.EncodePayload(jobs.JobAppointmentReminder, payload)
		if eerr != nil {
			s.logger.Error("reminder payload encode failed", "appointment_id", a.ID, "err", eerr.Error())
			continue
		}

		key := "appointment:reminder:" + a.ID

		_, cerr := s.jobs.Create(ctx, job.CreateRequest{
			Type:           string(jobs.JobAppointmentReminder),
			Payload:        json.RawMessage(raw),
			RunAt:          now,
			MaxAttempts:    5,
			IdempotencyKey: &key,
		})

		if cerr != nil {
			if postgres.IsUniqueViolation(cerr) {
				// already scheduled on a previous sweep
				continue
			}
			s.logger.Error("reminder enqueue failed", "appointment_id", a.ID, "err", cerr.Error())
			continue
		}

		enqueued++
	}

	return enqueued, nil
}
