package service

import (
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConflictDetector looks for an active appointment overlapping a requested slot.
type ConflictDetector struct {
	appointmentRepo repository.AppointmentRepository
}

func NewConflictDetector(appointmentRepo repository.AppointmentRepository) *ConflictDetector {
	return &ConflictDetector{appointmentRepo: appointmentRepo}
}

// FindConflict loads the doctor's booked appointments for the requested day and
// returns the first that overlaps. excludeID skips the appointment being rescheduled.
func (d *ConflictDetector) FindConflict(db *gorm.DB, doctorID uuid.UUID, requested entity.Slot, excludeID *uuid.UUID) (*entity.Appointment, error) {
	ledger, err := d.appointmentRepo.FindBookedByDoctorAndDate(db, doctorID, requested.Date)
	if err != nil {
		return nil, err
	}
	return DetectConflict(ledger, requested, excludeID), nil
}

// DetectConflict applies the half-open overlap rule to an in-memory ledger.
func DetectConflict(ledger []entity.Appointment, requested entity.Slot, excludeID *uuid.UUID) *entity.Appointment {
	for i := range ledger {
		existing := &ledger[i]
		if !existing.IsBooked() {
			continue
		}
		if excludeID != nil && existing.ID == *excludeID {
			continue
		}
		if existing.Slot.Overlaps(requested) {
			return existing
		}
	}
	return nil
}
