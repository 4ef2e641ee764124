package jobs

import "time"

// AppointmentNotifyPayload is shared by confirmation and reminder jobs.
// Keep payload minimal and ID-based; the worker loads fresh details
// from the DB when it needs them.
type AppointmentNotifyPayload struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	Email         string    `json:"email"`
	PatientName   string    `json:"patientName"`
	StartTime     time.Time `json:"startTime"`
	RequestedBy   string    `json:"requestedBy,omitempty"` // user who scheduled
	RequestID     string    `json:"requestId,omitempty"`   // correlation
}
