package notifications

import (
	"context"
	"time"
)

type SendAppointmentNoticeInput struct {
	AppointmentID string
	PatientID     string
	Email         string
	PatientName   string
	StartTime     time.Time
}

// Notifier is the outbound channel for patient-facing messages. The real
// provider (SMTP, SMS gateway) plugs in behind this interface.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, input SendAppointmentNoticeInput) error
	SendAppointmentReminder(ctx context.Context, input SendAppointmentNoticeInput) error
}
