package patient

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("patient not found")

type Patient struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Gender      string    `json:"gender"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	Country     string    `json:"country,omitempty"`

	InsuranceProvider string `json:"insuranceProvider,omitempty"`
	InsuranceNumber   string `json:"insuranceNumber,omitempty"`

	Allergies      string `json:"allergies,omitempty"`
	MedicalHistory string `json:"medicalHistory,omitempty"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName   string    `json:"firstName" binding:"required,min=1,max=100"`
	LastName    string    `json:"lastName" binding:"required,min=1,max=100"`
	DateOfBirth time.Time `json:"dateOfBirth" binding:"required"`
	Gender      string    `json:"gender" binding:"required,oneof=male female other"`
	Email       string    `json:"email" binding:"omitempty,email"`
	Phone       string    `json:"phone" binding:"omitempty,max=30"`
	Address     string    `json:"address" binding:"omitempty,max=300"`
	City        string    `json:"city" binding:"omitempty,max=100"`
	PostalCode  string    `json:"postalCode" binding:"omitempty,max=20"`
	Country     string    `json:"country" binding:"omitempty,max=100"`

	InsuranceProvider string `json:"insuranceProvider" binding:"omitempty,max=120"`
	InsuranceNumber   string `json:"insuranceNumber" binding:"omitempty,max=60"`

	Allergies      string `json:"allergies" binding:"omitempty,max=2000"`
	MedicalHistory string `json:"medicalHistory" binding:"omitempty,max=5000"`
}

type UpdatePatientRequest struct {
	FirstName   string    `json:"firstName" binding:"required,min=1,max=100"`
	LastName    string    `json:"lastName" binding:"required,min=1,max=100"`
	DateOfBirth time.Time `json:"dateOfBirth" binding:"required"`
	Gender      string    `json:"gender" binding:"required,oneof=male female other"`
	Email       string    `json:"email" binding:"omitempty,email"`
	Phone       string    `json:"phone" binding:"omitempty,max=30"`
	Address     string    `json:"address" binding:"omitempty,max=300"`
	City        string    `json:"city" binding:"omitempty,max=100"`
	PostalCode  string    `json:"postalCode" binding:"omitempty,max=20"`
	Country     string    `json:"country" binding:"omitempty,max=100"`

	InsuranceProvider string `json:"insuranceProvider" binding:"omitempty,max=120"`
	InsuranceNumber   string `json:"insuranceNumber" binding:"omitempty,max=60"`

	Allergies      string `json:"allergies" binding:"omitempty,max=2000"`
	MedicalHistory string `json:"medicalHistory" binding:"omitempty,max=5000"`

	IsActive *bool `json:"isActive" binding:"omitempty"`
}

type ListFilter struct {
	Query  *string
	Limit  int
	Offset int
}
