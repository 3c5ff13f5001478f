package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID   `json:"doctor_id" validate:"required"`
	AppointmentSlot SlotRequest `json:"appointment_slot" validate:"required"`
}

type RescheduleAppointmentRequest struct {
	AppointmentID      uuid.UUID   `json:"appointment_id" validate:"required"`
	NewAppointmentSlot SlotRequest `json:"new_appointment_slot" validate:"required"`
}

type CancelAppointmentRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	AppointmentSlot SlotResponse    `json:"appointment_slot"`
	Status          string          `json:"status"`
	Doctor          *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
