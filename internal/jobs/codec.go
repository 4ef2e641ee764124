package jobs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medisecure/medisecure-backend/internal/domain/job"
)

func EncodePayload(t JobType, payload any) ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}

	switch t {
	case JobAppointmentConfirmation, JobAppointmentReminder:
		switch payload.(type) {
		case AppointmentNotifyPayload, *AppointmentNotifyPayload:
		default:
			return nil, ErrPayloadTypeMismatch
		}
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return b, nil
}

// DecodePayload unmarshals job.Payload into the typed payload struct.
func DecodePayload(j job.Job) (AppointmentNotifyPayload, error) {
	t := JobType(j.Type)

	if !t.IsValid() {
		return AppointmentNotifyPayload{}, ErrInvalidJobType
	}
	if len(j.Payload) == 0 {
		return AppointmentNotifyPayload{}, ErrInvalidJobPayload
	}

	var p AppointmentNotifyPayload

	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return AppointmentNotifyPayload{}, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return p, nil
}

// ValidatePayload performs minimal validation on decoded payloads.
func ValidatePayload(t JobType, p AppointmentNotifyPayload) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	if strings.TrimSpace(p.AppointmentID) == "" || strings.TrimSpace(p.Email) == "" {
		return ErrInvalidJobPayload
	}

	return nil
}
