package notifications

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendAppointmentConfirmation(ctx context.Context, in SendAppointmentNoticeInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	log.Printf("notification.appointment_confirmation email=%s patient=%s appointment=%s start=%s",
		in.Email, in.PatientName, in.AppointmentID, in.StartTime.Format(time.RFC3339),
	)
	return nil
}

func (n *LogNotifier) SendAppointmentReminder(ctx context.Context, in SendAppointmentNoticeInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	log.Printf("notification.appointment_reminder email=%s patient=%s appointment=%s start=%s",
		in.Email, in.PatientName, in.AppointmentID, in.StartTime.Format(time.RFC3339),
	)
	return nil
}

func simulateProvider(ctx context.Context) error {
	// Optional: simulate slow provider
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	return nil
}
