package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/cache"
	"github.com/medisecure/medisecure-backend/internal/config"
	"github.com/medisecure/medisecure-backend/internal/domain/appointment"
	"github.com/medisecure/medisecure-backend/internal/domain/job"
	"github.com/medisecure/medisecure-backend/internal/domain/patient"
	"github.com/medisecure/medisecure-backend/internal/http/middlewares"
	"github.com/medisecure/medisecure-backend/internal/jobs"
	"github.com/medisecure/medisecure-backend/internal/repo/postgres"
	"github.com/medisecure/medisecure-backend/internal/utils"
)

type AppointmentsStore interface {
	Create(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error)
	GetByID(ctx context.Context, id string) (appointment.Appointment, error)
	List(ctx context.Context, f appointment.ListFilter) ([]appointment.Appointment, int, error)
	ListForDoctor(ctx context.Context, doctorID string, from, to time.Time) ([]appointment.Appointment, error)
	Update(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error)
	Delete(ctx context.Context, id string) error
}

type PatientsReader interface {
	GetByID(ctx context.Context, id string) (patient.Patient, error)
}

type JobsCreator interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
	GetByIdempotencyKey(ctx context.Context, key string) (job.Job, error)
}

type AppointmentsHandler struct {
	repo     AppointmentsStore
	patients PatientsReader
	jobsRepo JobsCreator
	svc      *appointment.Service
	cache    *cache.Cache
}

func NewAppointmentsHandler(repo AppointmentsStore, patients PatientsReader, jobsRepo JobsCreator, svc *appointment.Service, listCache *cache.Cache) *AppointmentsHandler {
	return &AppointmentsHandler{
		repo:     repo,
		patients: patients,
		jobsRepo: jobsRepo,
		svc:      svc,
		cache:    listCache,
	}
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (h *AppointmentsHandler) Create(ctx *gin.Context) {
	var req appointment.CreateAppointmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := h.svc.ValidateTimes(req.StartTime, req.EndTime); err != nil {
		RespondBadRequest(ctx, "End time must be after start time", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.patients.GetByID(cctx, req.PatientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RespondNotFound(ctx, "Patient not found")
			return
		}
		RespondInternal(ctx, "Could not create appointment")
		return
	}

	busy, err := h.repo.ListForDoctor(cctx, req.DoctorID, req.StartTime, req.EndTime)
	if err != nil {
		RespondInternal(ctx, "Could not create appointment")
		return
	}

	if h.svc.Overlaps(busy, req.StartTime, req.EndTime, "") {
		RespondConflict(ctx, "appointment_conflict", "The doctor already has an appointment in this time range.")
		return
	}

	created, err := h.repo.Create(cctx, appointment.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Status:    appointment.StatusScheduled,
		Reason:    req.Reason,
		Notes:     req.Notes,
		IsActive:  true,
	})

	if err != nil {
		RespondInternal(ctx, "Could not create appointment")
		return
	}

	h.cache.Clear()

	h.enqueueConfirmation(ctx, created, p)

	ctx.JSON(http.StatusCreated, created)
}

// enqueueConfirmation schedules the confirmation notification. The
// appointment is already persisted, so a broken queue only costs the
// notification, never the booking.
func (h *AppointmentsHandler) enqueueConfirmation(ctx *gin.Context, a appointment.Appointment, p patient.Patient) {
	if h.jobsRepo == nil {
		return
	}

	userID, _ := middlewares.UserIDFromContext(ctx)

	payload := jobs.AppointmentNotifyPayload{
		AppointmentID: a.ID,
		PatientID:     p.ID,
		Email:         p.Email,
		PatientName:   p.FullName(),
		StartTime:     a.StartTime,
		RequestedBy:   userID,
		RequestID:     requestIDFrom(ctx),
	}

	raw, err := jobs.EncodePayload(jobs.JobAppointmentConfirmation, payload)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "job.encode_failed", "err", err.Error())
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	key := "appointment:confirm:" + a.ID

	j, err := h.jobsRepo.Create(cctx, job.CreateRequest{
		Type:           string(jobs.JobAppointmentConfirmation),
		Payload:        json.RawMessage(raw),
		RunAt:          time.Now().UTC(),
		MaxAttempts:    5,
		IdempotencyKey: &key,
	})

	if err != nil {
		if postgres.IsUniqueViolation(err) {
			// someone got there first; the notification is already on its way
			return
		}
		slog.Default().ErrorContext(cctx, "job.enqueue_failed",
			"request_id", requestIDFrom(ctx),
			"appointment_id", a.ID,
			"err", err.Error(),
		)
		return
	}

	slog.Default().InfoContext(cctx, "job.enqueue",
		"request_id", requestIDFrom(ctx),
		"job_id", j.ID,
		"job_type", j.Type,
	)
}

func (h *AppointmentsHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	a, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			RespondNotFound(ctx, "Appointment not found")
			return
		}
		RespondInternal(ctx, "Could not fetch appointment")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, a)
}

func (h *AppointmentsHandler) List(ctx *gin.Context) {
	f, ok := parseAppointmentFilter(ctx)
	if !ok {
		return
	}

	key := utils.BuildAppointmentsListCacheKey(
		f.Limit, f.Offset,
		f.PatientID, f.DoctorID, statusString(f.Status),
		f.From, f.To,
	)

	if cached, hit := h.cache.Get(key); hit {
		RespondJSONWithETag(ctx, http.StatusOK, cached)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, f)
	if err != nil {
		RespondInternal(ctx, "Could not list appointments")
		return
	}

	body := gin.H{
		"items":  items,
		"total":  total,
		"limit":  f.Limit,
		"offset": f.Offset,
	}

	h.cache.Set(key, body)

	RespondJSONWithETag(ctx, http.StatusOK, body)
}

func (h *AppointmentsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "id must be a valid UUID", nil)
		return
	}

	var req appointment.UpdateAppointmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := h.svc.ValidateTimes(req.StartTime, req.EndTime); err != nil {
		RespondBadRequest(ctx, "End time must be after start time", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			RespondNotFound(ctx, "Appointment not found")
			return
		}
		RespondInternal(ctx, "Could not update appointment")
		return
	}

	busy, err := h.repo.ListForDoctor(cctx, existing.DoctorID, req.StartTime, req.EndTime)
	if err != nil {
		RespondInternal(ctx, "Could not update appointment")
		return
	}

	if h.svc.Overlaps(busy, req.StartTime, req.EndTime, existing.ID) {
		RespondConflict(ctx, "appointment_conflict", "The doctor already has an appointment in this time range.")
		return
	}

	existing.StartTime = req.StartTime.UTC()
	existing.EndTime = req.EndTime.UTC()
	existing.Status = appointment.Status(req.Status)
	existing.Reason = req.Reason
	existing.Notes = req.Notes

	updated, err := h.repo.Update(cctx, existing)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			RespondNotFound(ctx, "Appointment not found")
			return
		}
		RespondInternal(ctx, "Could not update appointment")
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, updated)
}

func (h *AppointmentsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			RespondNotFound(ctx, "Appointment not found")
			return
		}
		RespondInternal(ctx, "Could not delete appointment")
		return
	}

	h.cache.Clear()

	ctx.Status(http.StatusNoContent)
}

// Availability lists the free slots of a doctor's working day.
func (h *AppointmentsHandler) Availability(ctx *gin.Context) {
	doctorID := ctx.Query("doctorId")

	if !utils.IsUUID(doctorID) {
		RespondBadRequest(ctx, "doctorId must be a valid UUID", nil)
		return
	}

	dateStr := ctx.Query("date")

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		RespondBadRequest(ctx, "date must be formatted as YYYY-MM-DD", nil)
		return
	}

	slotMinutes := 30

	if raw := ctx.Query("slotMinutes"); raw != "" {
		slotMinutes, err = strconv.Atoi(raw)
		if err != nil || slotMinutes <= 0 || slotMinutes > 240 {
			RespondBadRequest(ctx, "slotMinutes must be a positive integer up to 240", nil)
			return
		}
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	busy, err := h.repo.ListForDoctor(cctx, doctorID, dayStart, dayEnd)
	if err != nil {
		RespondInternal(ctx, "Could not compute availability")
		return
	}

	slots := h.svc.AvailableSlots(busy, dayStart, slotMinutes, 8, 18)

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"date":     dateStr,
		"slots":    slots,
	})
}

func parseAppointmentFilter(ctx *gin.Context) (appointment.ListFilter, bool) {
	f := appointment.ListFilter{Limit: defaultListLimit}

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			RespondBadRequest(ctx, fmt.Sprintf("limit must be between 1 and %d", maxListLimit), nil)
			return f, false
		}
		f.Limit = n
	}

	if raw := ctx.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondBadRequest(ctx, "offset must be a non-negative integer", nil)
			return f, false
		}
		f.Offset = n
	}

	if raw := ctx.Query("patientId"); raw != "" {
		if !utils.IsUUID(raw) {
			RespondBadRequest(ctx, "patientId must be a valid UUID", nil)
			return f, false
		}
		f.PatientID = &raw
	}

	if raw := ctx.Query("doctorId"); raw != "" {
		if !utils.IsUUID(raw) {
			RespondBadRequest(ctx, "doctorId must be a valid UUID", nil)
			return f, false
		}
		f.DoctorID = &raw
	}

	if raw := ctx.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
			RespondBadRequest(ctx, "status is not a known appointment status", nil)
			return f, false
		}
		f.Status = &st
	}

	if raw := ctx.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(ctx, "from must be an RFC 3339 datetime", nil)
			return f, false
		}
		f.From = &t
	}

	if raw := ctx.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(ctx, "to must be an RFC 3339 datetime", nil)
			return f, false
		}
		f.To = &t
	}

	return f, true
}

func statusString(s *appointment.Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
