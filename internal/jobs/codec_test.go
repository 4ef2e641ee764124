package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/medisecure/medisecure-backend/internal/domain/job"
)

func TestEncodeDecodePayload(t *testing.T) {
	p := AppointmentNotifyPayload{
		AppointmentID: "appt-1",
		PatientID:     "pat-1",
		Email:         "jane@medisecure.com",
		PatientName:   "Jane Doe",
		StartTime:     time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
	}

	b, err := EncodePayload(JobAppointmentConfirmation, p)

	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}

	j := job.New(job.CreateRequest{
		Type:    string(JobAppointmentConfirmation),
		Payload: b,
	})

	got, err := DecodePayload(j)

	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}

	if got.AppointmentID != p.AppointmentID || got.Email != p.Email || !got.StartTime.Equal(p.StartTime) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestEncodePayload_Mismatch(t *testing.T) {
	_, err := EncodePayload(JobAppointmentReminder, struct{ X int }{1})

	if !errors.Is(err, ErrPayloadTypeMismatch) {
		t.Fatalf("expected ErrPayloadTypeMismatch, got %v", err)
	}
}

func TestEncodePayload_UnknownType(t *testing.T) {
	_, err := EncodePayload(JobType("export.csv"), AppointmentNotifyPayload{})

	if !errors.Is(err, ErrInvalidJobType) {
		t.Fatalf("expected ErrInvalidJobType, got %v", err)
	}
}

func TestDecodePayload_Empty(t *testing.T) {
	j := job.New(job.CreateRequest{Type: string(JobAppointmentReminder)})

	_, err := DecodePayload(j)

	if !errors.Is(err, ErrInvalidJobPayload) {
		t.Fatalf("expected ErrInvalidJobPayload, got %v", err)
	}
}

func TestValidatePayload(t *testing.T) {
	ok := AppointmentNotifyPayload{AppointmentID: "a", Email: "x@y.z"}

	if err := ValidatePayload(JobAppointmentConfirmation, ok); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	if err := ValidatePayload(JobAppointmentConfirmation, AppointmentNotifyPayload{Email: "x@y.z"}); !errors.Is(err, ErrInvalidJobPayload) {
		t.Fatalf("missing appointment id should fail, got %v", err)
	}
}
