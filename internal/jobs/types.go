package jobs

type JobType string

const (
	JobAppointmentConfirmation JobType = "appointment.confirmation"
	JobAppointmentReminder     JobType = "appointment.reminder"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobAppointmentConfirmation, JobAppointmentReminder:
		return true
	default:
		return false
	}
}
