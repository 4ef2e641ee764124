package appointment

import (
	"errors"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusMissed:
		return true
	default:
		return false
	}
}

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrInvalidTimes = errors.New("end time must be after start time")
	ErrOverlap      = errors.New("appointment overlaps an existing one")
)

type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    Status    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime).Minutes())
}

type CreateAppointmentRequest struct {
	PatientID string    `json:"patientId" binding:"required,uuid"`
	DoctorID  string    `json:"doctorId" binding:"required,uuid"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Reason    string    `json:"reason" binding:"omitempty,max=500"`
	Notes     string    `json:"notes" binding:"omitempty,max=2000"`
}

// Full update payload; status transitions ride the same endpoint.
type UpdateAppointmentRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Status    string    `json:"status" binding:"required,oneof=scheduled confirmed cancelled completed missed"`
	Reason    string    `json:"reason" binding:"omitempty,max=500"`
	Notes     string    `json:"notes" binding:"omitempty,max=2000"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	PatientID *string
	DoctorID  *string
	From      *time.Time
	To        *time.Time
	Status    *Status
	Limit     int
	Offset    int
}
