package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/config"
	"github.com/medisecure/medisecure-backend/internal/domain/patient"
	"github.com/medisecure/medisecure-backend/internal/utils"
)

type PatientsStore interface {
	Create(ctx context.Context, p patient.Patient) (patient.Patient, error)
	GetByID(ctx context.Context, id string) (patient.Patient, error)
	List(ctx context.Context, f patient.ListFilter) ([]patient.Patient, int, error)
	Update(ctx context.Context, p patient.Patient) (patient.Patient, error)
	Delete(ctx context.Context, id string) error
}

type PatientsHandler struct {
	repo PatientsStore
}

func NewPatientsHandler(repo PatientsStore) *PatientsHandler {
	return &PatientsHandler{repo: repo}
}

func (h *PatientsHandler) Create(ctx *gin.Context) {
	var req patient.CreatePatientRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, patient.Patient{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Gender:            req.Gender,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		City:              req.City,
		PostalCode:        req.PostalCode,
		Country:           req.Country,
		InsuranceProvider: req.InsuranceProvider,
		InsuranceNumber:   req.InsuranceNumber,
		Allergies:         req.Allergies,
		MedicalHistory:    req.MedicalHistory,
		IsActive:          true,
	})

	if err != nil {
		RespondInternal(ctx, "Could not create patient")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *PatientsHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RespondNotFound(ctx, "Patient not found")
			return
		}
		RespondInternal(ctx, "Could not fetch patient")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *PatientsHandler) List(ctx *gin.Context) {
	f := patient.ListFilter{Limit: defaultListLimit}

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			RespondBadRequest(ctx, "limit must be between 1 and 100", nil)
			return
		}
		f.Limit = n
	}

	if raw := ctx.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondBadRequest(ctx, "offset must be a non-negative integer", nil)
			return
		}
		f.Offset = n
	}

	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		f.Query = &q
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, f)
	if err != nil {
		RespondInternal(ctx, "Could not list patients")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"limit":  f.Limit,
		"offset": f.Offset,
	})
}

func (h *PatientsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "id must be a valid UUID", nil)
		return
	}

	var req patient.UpdatePatientRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RespondNotFound(ctx, "Patient not found")
			return
		}
		RespondInternal(ctx, "Could not update patient")
		return
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.DateOfBirth = req.DateOfBirth
	existing.Gender = req.Gender
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.City = req.City
	existing.PostalCode = req.PostalCode
	existing.Country = req.Country
	existing.InsuranceProvider = req.InsuranceProvider
	existing.InsuranceNumber = req.InsuranceNumber
	existing.Allergies = req.Allergies
	existing.MedicalHistory = req.MedicalHistory

	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	updated, err := h.repo.Update(cctx, existing)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RespondNotFound(ctx, "Patient not found")
			return
		}
		RespondInternal(ctx, "Could not update patient")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *PatientsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			RespondNotFound(ctx, "Patient not found")
			return
		}
		RespondInternal(ctx, "Could not delete patient")
		return
	}

	ctx.Status(http.StatusNoContent)
}
