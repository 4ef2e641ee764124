package worker

import (
	"context"
	"errors"
	"time"

	"github.com/medisecure/medisecure-backend/internal/domain/job"
	"github.com/medisecure/medisecure-backend/internal/jobs"
	"github.com/medisecure/medisecure-backend/internal/notifications"
)

// ProcessOne claims and runs a single job. The bool reports whether a job
// was actually claimed, so callers can drain until the queue is empty.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)

	j, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return false, nil
		}

		return false, err
	}

	w.metrics.IncClaimed()
	started := time.Now()

	err = w.execute(ctx, j)
	w.metrics.ObserveDuration(time.Since(started))

	if err != nil {
		w.handleFailure(ctx, j, err)
		return true, nil
	}

	err = w.repo.MarkDone(ctx, j.ID)

	if err != nil {
		_ = w.repo.MarkFailed(ctx, j.ID, "mark_done_failed: "+err.Error())
		w.metrics.IncFailed()
		return true, err
	}

	w.metrics.IncDone()

	w.logger.Info("job done",
		"job_id", j.ID,
		"job_type", j.Type,
		"attempts", j.Attempts,
	)

	return true, nil
}

func (w *Worker) execute(ctx context.Context, j job.Job) error {
	payload, err := jobs.DecodePayload(j)
	if err != nil {
		return err
	}

	input := notifications.SendAppointmentNoticeInput{
		AppointmentID: payload.AppointmentID,
		PatientID:     payload.PatientID,
		Email:         payload.Email,
		PatientName:   payload.PatientName,
		StartTime:     payload.StartTime,
	}

	dedupKey := "notify:" + j.Type + ":" + payload.AppointmentID

	if w.dedup != nil {
		first, derr := w.dedup.AcquireOnce(ctx, dedupKey, 24*time.Hour)
		if derr != nil {
			// redis being down must not stop notifications; worst case we double-send
			w.logger.Error("dedup check failed", "job_id", j.ID, "err", derr.Error())
		} else if !first {
			w.logger.Info("notification already sent, skipping", "job_id", j.ID, "job_type", j.Type)
			return nil
		}
	}

	switch jobs.JobType(j.Type) {
	case jobs.JobAppointmentConfirmation:
		err = w.notifier.SendAppointmentConfirmation(ctx, input)
	case jobs.JobAppointmentReminder:
		err = w.notifier.SendAppointmentReminder(ctx, input)
	default:
		return jobs.ErrInvalidJobType
	}

	if err != nil && w.dedup != nil {
		// free the marker so the retry can go through
		_ = w.dedup.Release(ctx, dedupKey)
	}

	return err
}

func (w *Worker) handleFailure(ctx context.Context, j job.Job, execErr error) {
	// payload problems never fix themselves, dead-letter immediately
	if errors.Is(execErr, jobs.ErrInvalidJobType) ||
		errors.Is(execErr, jobs.ErrInvalidJobPayload) ||
		errors.Is(execErr, jobs.ErrPayloadTypeMismatch) {
		_ = w.repo.MarkFailed(ctx, j.ID, execErr.Error())
		w.metrics.IncDeadLettered()

		w.logger.Error("job dead-lettered",
			"job_id", j.ID,
			"job_type", j.Type,
			"err", execErr.Error(),
		)
		return
	}

	// attempts counts claims so far; the reschedule below adds one more
	if j.Attempts+1 >= j.MaxAttempts {
		_ = w.repo.MarkFailed(ctx, j.ID, execErr.Error())
		w.metrics.IncFailed()

		w.logger.Error("job failed permanently",
			"job_id", j.ID,
			"job_type", j.Type,
			"attempts", j.Attempts+1,
			"err", execErr.Error(),
		)
		return
	}

	delay := ExponentialBackoff(j.Attempts)
	runAt := time.Now().UTC().Add(delay)

	if err := w.repo.Reschedule(ctx, j.ID, runAt, execErr.Error()); err != nil {
		_ = w.repo.MarkFailed(ctx, j.ID, "reschedule_failed: "+err.Error())
		w.metrics.IncFailed()
		return
	}

	w.metrics.IncRetried()

	w.logger.Info("job rescheduled",
		"job_id", j.ID,
		"job_type", j.Type,
		"attempts", j.Attempts+1,
		"delay_ms", delay.Milliseconds(),
		"err", execErr.Error(),
	)
}
