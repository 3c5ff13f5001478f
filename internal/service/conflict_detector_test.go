package service

import (
	"errors"
	"testing"
	"time"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ledgerRepo serves FindBookedByDoctorAndDate from a fixed ledger.
type ledgerRepo struct {
	ledger    []entity.Appointment
	err       error
	gotDoctor uuid.UUID
	gotDate   time.Time
}

func (r *ledgerRepo) Create(*gorm.DB, *entity.Appointment) error { return nil }
func (r *ledgerRepo) FindByID(*gorm.DB, uuid.UUID) (*entity.Appointment, error) {
	return nil, nil
}
func (r *ledgerRepo) FindByIDForUpdate(*gorm.DB, uuid.UUID) (*entity.Appointment, error) {
	return nil, nil
}
func (r *ledgerRepo) FindByUserID(*gorm.DB, uuid.UUID) ([]entity.Appointment, error) {
	return nil, nil
}
func (r *ledgerRepo) FindBookedByDoctorAndDate(_ *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	r.gotDoctor, r.gotDate = doctorID, date
	return r.ledger, r.err
}
func (r *ledgerRepo) UpdateSlot(*gorm.DB, uuid.UUID, entity.Slot) error { return nil }
func (r *ledgerRepo) UpdateStatus(*gorm.DB, uuid.UUID, entity.AppointmentStatus) error {
	return nil
}

func booked(t *testing.T, start, end string) entity.Appointment {
	t.Helper()
	return entity.Appointment{
		ID:     uuid.New(),
		Slot:   mustSlot(t, "2025-03-10", start, end),
		Status: entity.AppointmentStatusBooked,
	}
}

func TestDetectConflict(t *testing.T) {
	existing := booked(t, "10:00", "10:30")
	cancelled := booked(t, "11:00", "12:00")
	cancelled.Status = entity.AppointmentStatusCancelled
	ledger := []entity.Appointment{existing, cancelled}

	tests := []struct {
		name    string
		req     entity.Slot
		exclude *uuid.UUID
		want    bool
	}{
		{name: "overlap", req: mustSlot(t, "2025-03-10", "10:15", "10:45"), want: true},
		{name: "boundary touch", req: mustSlot(t, "2025-03-10", "10:30", "11:00"), want: false},
		{name: "cancelled is ignored", req: mustSlot(t, "2025-03-10", "11:00", "12:00"), want: false},
		{name: "excluded self", req: mustSlot(t, "2025-03-10", "10:00", "10:30"), exclude: &existing.ID, want: false},
		{name: "other exclusion", req: mustSlot(t, "2025-03-10", "10:00", "10:30"), exclude: &cancelled.ID, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectConflict(ledger, tt.req, tt.exclude)
			if (got != nil) != tt.want {
				t.Fatalf("conflict = %v, want %v", got, tt.want)
			}
			if got != nil && got.ID != existing.ID {
				t.Errorf("unexpected conflicting appointment %s", got.ID)
			}
		})
	}
}

func TestConflictDetector_FindConflict(t *testing.T) {
	doctorID := uuid.New()
	repo := &ledgerRepo{ledger: []entity.Appointment{booked(t, "09:00", "10:00")}}
	d := NewConflictDetector(repo)

	req := mustSlot(t, "2025-03-10", "09:30", "10:30")
	got, err := d.FindConflict(nil, doctorID, req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a conflict")
	}
	if repo.gotDoctor != doctorID || !repo.gotDate.Equal(req.Date) {
		t.Errorf("ledger queried for %s on %s", repo.gotDoctor, repo.gotDate)
	}

	repo.err = errors.New("db down")
	if _, err := d.FindConflict(nil, doctorID, req, nil); err == nil {
		t.Fatal("expected the store error")
	}
}
