package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

func adminContext() context.Context {
	return middleware.WithIdentity(context.Background(), uuid.New(), "admin@example.com", entity.RoleAdmin, "t")
}

func TestDoctorUsecase_CreateUpdateDelete(t *testing.T) {
	repo := newFakeDoctorRepo()
	audit := &fakeAuditService{}
	uc := NewDoctorUsecase(&fakeTransactor{}, quietLogger(), repo, audit)
	ctx := adminContext()

	ratings := 4.567
	created, err := uc.CreateDoctor(ctx, &dto.CreateDoctorRequest{
		Name:       "Dr. A",
		Specialty:  "Cardiology",
		Experience: 10,
		Ratings:    &ratings,
		AvailableSlots: []dto.SlotRequest{
			{Date: "2025-03-10", StartTime: "09:00", EndTime: "12:00"},
			{Date: "2025-03-11", StartTime: "13:00", EndTime: "17:00"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Ratings.String() != "4.57" {
		t.Errorf("ratings should round to two places, got %s", created.Ratings)
	}
	if len(created.AvailableSlots) != 2 || created.AvailableSlots[0].StartTime != "09:00" {
		t.Errorf("availability order not kept: %+v", created.AvailableSlots)
	}

	name := "Dr. B"
	updated, err := uc.UpdateDoctor(ctx, created.ID, &dto.UpdateDoctorRequest{
		Name:           &name,
		AvailableSlots: []dto.SlotRequest{{Date: "2025-03-12", StartTime: "08:00", EndTime: "10:00"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Dr. B" || updated.Specialty != "Cardiology" {
		t.Errorf("partial update went wrong: %+v", updated)
	}
	if len(updated.AvailableSlots) != 1 || updated.AvailableSlots[0].Date != "2025-03-12" {
		t.Errorf("availability should be replaced: %+v", updated.AvailableSlots)
	}

	if err := uc.DeleteDoctor(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.GetDoctor(ctx, created.ID); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound after delete, got %v", err)
	}

	wantActions := []string{entity.AuditActionDoctorCreate, entity.AuditActionDoctorUpdate, entity.AuditActionDoctorDelete}
	if len(audit.entries) != len(wantActions) {
		t.Fatalf("expected %d audit entries, got %+v", len(wantActions), audit.entries)
	}
	for i, action := range wantActions {
		if audit.entries[i].action != action {
			t.Errorf("audit[%d] = %s, want %s", i, audit.entries[i].action, action)
		}
	}
}

func TestDoctorUsecase_RejectsBadAvailability(t *testing.T) {
	uc := NewDoctorUsecase(&fakeTransactor{}, quietLogger(), newFakeDoctorRepo(), &fakeAuditService{})

	_, err := uc.CreateDoctor(adminContext(), &dto.CreateDoctorRequest{
		Name:           "Dr. A",
		Specialty:      "General",
		AvailableSlots: []dto.SlotRequest{{Date: "2025-03-10", StartTime: "12:00", EndTime: "09:00"}},
	})
	if !errors.Is(err, entity.ErrInvalidSlotRange) {
		t.Fatalf("expected ErrInvalidSlotRange, got %v", err)
	}
}

func TestDoctorUsecase_UnknownDoctor(t *testing.T) {
	uc := NewDoctorUsecase(&fakeTransactor{}, quietLogger(), newFakeDoctorRepo(), &fakeAuditService{})
	name := "x"

	if _, err := uc.UpdateDoctor(adminContext(), uuid.New(), &dto.UpdateDoctorRequest{Name: &name}); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("update: expected ErrDoctorNotFound, got %v", err)
	}
	if err := uc.DeleteDoctor(adminContext(), uuid.New()); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("delete: expected ErrDoctorNotFound, got %v", err)
	}
}
