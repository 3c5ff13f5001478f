package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name           string        `json:"name" validate:"required,min=2,max=255"`
	Specialty      string        `json:"specialty" validate:"required,max=100"`
	Qualifications string        `json:"qualifications" validate:"omitempty"`
	Experience     int           `json:"experience" validate:"gte=0,lte=80"`
	Ratings        *float64      `json:"ratings" validate:"omitempty,gte=0,lte=5"`
	AvailableSlots []SlotRequest `json:"available_slots" validate:"omitempty,dive"`
}

// UpdateDoctorRequest replaces only the fields that are present.
// A present available_slots array, even empty, replaces the whole set.
type UpdateDoctorRequest struct {
	Name           *string       `json:"name" validate:"omitempty,min=2,max=255"`
	Specialty      *string       `json:"specialty" validate:"omitempty,min=1,max=100"`
	Qualifications *string       `json:"qualifications" validate:"omitempty"`
	Experience     *int          `json:"experience" validate:"omitempty,gte=0,lte=80"`
	Ratings        *float64      `json:"ratings" validate:"omitempty,gte=0,lte=5"`
	AvailableSlots []SlotRequest `json:"available_slots" validate:"omitempty,dive"`
}

// DoctorListQuery is read from the query string of GET /doctors
type DoctorListQuery struct {
	Name       string
	Specialty  string
	Experience *int
	Ratings    *decimal.Decimal
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Specialty      string          `json:"specialty"`
	Qualifications string          `json:"qualifications,omitempty"`
	Experience     int             `json:"experience"`
	Ratings        decimal.Decimal `json:"ratings"`
	AvailableSlots []SlotResponse  `json:"available_slots"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
