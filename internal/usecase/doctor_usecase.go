package usecase

import (
	"context"
	"errors"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context, query dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		transactor:   transactor,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	slots, err := converter.SlotRequestsToEntities(req.AvailableSlots)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:           req.Name,
		Specialty:      req.Specialty,
		Qualifications: req.Qualifications,
		Experience:     req.Experience,
		Ratings:        ratingsFromRequest(req.Ratings),
	}
	doctor.SetAvailability(slots)

	actorID := actorFromContext(ctx)
	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.doctorRepo.Create(tx, doctor); err != nil {
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}
		return u.auditService.LogCreate(tx, actorID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor))
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.transactor.DB(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context, query dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	filter := entity.DoctorFilter{
		Name:          query.Name,
		Specialty:     query.Specialty,
		MinExperience: query.Experience,
		MinRatings:    query.Ratings,
	}

	doctors, err := u.doctorRepo.FindAll(u.transactor.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// UpdateDoctor applies the present fields. When available_slots is present the
// availability set is replaced; existing appointments are left untouched.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	var slots []entity.Slot
	if req.AvailableSlots != nil {
		parsed, err := converter.SlotRequestsToEntities(req.AvailableSlots)
		if err != nil {
			return nil, err
		}
		slots = parsed
	}

	actorID := actorFromContext(ctx)
	var updated *entity.Doctor
	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		oldValue := converter.DoctorToResponse(doctor)

		if req.Name != nil {
			doctor.Name = *req.Name
		}
		if req.Specialty != nil {
			doctor.Specialty = *req.Specialty
		}
		if req.Qualifications != nil {
			doctor.Qualifications = *req.Qualifications
		}
		if req.Experience != nil {
			doctor.Experience = *req.Experience
		}
		if req.Ratings != nil {
			doctor.Ratings = ratingsFromRequest(req.Ratings)
		}

		if err := u.doctorRepo.Update(tx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
			return err
		}

		if req.AvailableSlots != nil {
			doctor.SetAvailability(slots)
			if err := u.doctorRepo.ReplaceAvailability(tx, doctor.ID, doctor.AvailableSlots); err != nil {
				u.log.Warnf("Failed to replace availability of doctor %s: %+v", doctorID, err)
				return err
			}
		}

		updated = doctor
		return u.auditService.LogUpdate(tx, actorID, entity.AuditActionDoctorUpdate, "doctor", doctor.ID.String(), oldValue, converter.DoctorToResponse(doctor))
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(updated), nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	actorID := actorFromContext(ctx)
	return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		rows, err := u.doctorRepo.Delete(tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
			return err
		}
		if rows == 0 {
			return ErrDoctorNotFound
		}

		return u.auditService.LogDelete(tx, actorID, entity.AuditActionDoctorDelete, "doctor", doctorID.String(), converter.DoctorToResponse(doctor))
	})
}

func ratingsFromRequest(r *float64) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*r).Round(2)
}

func actorFromContext(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}
