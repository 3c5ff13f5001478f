package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotNotAvailable            = errors.New("requested slot is not within the doctor's available hours")
	ErrSlotConflict                = errors.New("appointment slot already booked or conflicting with another appointment")
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrAppointmentNotOwned         = errors.New("appointment does not belong to you")
	ErrRescheduleCancelled         = errors.New("cannot reschedule a cancelled appointment")
	ErrAppointmentAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrRescheduleLockout           = errors.New("rescheduling not allowed within 24 hours of appointment")
	ErrCancelLockout               = errors.New("cancellation not allowed within 24 hours of appointment")
	ErrNewSlotNotAvailable         = errors.New("selected new slot is not available")
	ErrNewSlotConflict             = errors.New("new appointment slot already booked")
)

// appointmentOverlapConstraint is the exclusion constraint on appointments
const appointmentOverlapConstraint = "appointments_no_overlap"

const defaultLockout = 24 * time.Hour

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	RescheduleAppointment(ctx context.Context, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, req *dto.CancelAppointmentRequest) error
}

type appointmentUsecase struct {
	transactor       repository.Transactor
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	doctorRepo       repository.DoctorRepository
	userRepo         repository.UserRepository
	matcher          *service.AvailabilityMatcher
	conflictDetector *service.ConflictDetector
	slotLocker       service.SlotLocker
	auditService     service.AuditService
	notifier         service.Notifier
	lockout          time.Duration
	now              func() time.Time
}

func NewAppointmentUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	matcher *service.AvailabilityMatcher,
	slotLocker service.SlotLocker,
	auditService service.AuditService,
	notifier service.Notifier,
	lockout time.Duration,
) AppointmentUsecase {
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &appointmentUsecase{
		transactor:       transactor,
		log:              log,
		appointmentRepo:  appointmentRepo,
		doctorRepo:       doctorRepo,
		userRepo:         userRepo,
		matcher:          matcher,
		conflictDetector: service.NewConflictDetector(appointmentRepo),
		slotLocker:       slotLocker,
		auditService:     auditService,
		notifier:         notifier,
		lockout:          lockout,
		now:              time.Now,
	}
}

// CreateAppointment books a slot for the caller.
//
// Flow:
// 1. Take the doctor/day lock so concurrent bookings for that day queue up
// 2. In one transaction: doctor exists, slot is available, no overlap, insert
// 3. The exclusion constraint on appointments backs up the overlap check
// 4. After commit, queue the confirmation SMS
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	slot, err := converter.SlotRequestToEntity(req.AppointmentSlot)
	if err != nil {
		return nil, err
	}

	var appointment *entity.Appointment
	err = u.slotLocker.WithDoctorDayLock(ctx, req.DoctorID, slot.Day(), func(ctx context.Context) error {
		return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
			doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
			if err != nil {
				u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
				return err
			}
			if doctor == nil {
				return ErrDoctorNotFound
			}

			if _, ok := u.matcher.FindAvailable(slot, doctor.Availability()); !ok {
				return ErrSlotNotAvailable
			}

			conflict, err := u.conflictDetector.FindConflict(tx, doctor.ID, slot, nil)
			if err != nil {
				u.log.Warnf("Failed to check conflicts for doctor %s: %+v", doctor.ID, err)
				return err
			}
			if conflict != nil {
				return ErrSlotConflict
			}

			appointment = &entity.Appointment{
				UserID:   userID,
				DoctorID: doctor.ID,
				Slot:     slot,
				Status:   entity.AppointmentStatusBooked,
			}
			if err := u.appointmentRepo.Create(tx, appointment); err != nil {
				if isExclusionViolation(err, appointmentOverlapConstraint) {
					return ErrSlotConflict
				}
				u.log.Warnf("Failed to create appointment: %+v", err)
				return err
			}

			if err := u.auditService.LogCreate(tx, &userID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.SlotToResponse(slot)); err != nil {
				return err
			}

			appointment.Doctor = doctor
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, slot=%s", appointment.ID, appointment.DoctorID, appointment.Slot)
	u.notifyCaller(ctx, userID, BookedMessage(appointment.Slot))

	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments returns the caller's appointments, newest first, with doctors populated
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointments, err := u.appointmentRepo.FindByUserID(u.transactor.DB(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// RescheduleAppointment moves an appointment to a new slot in place.
// The appointment is excluded from its own conflict check, so moving onto a
// slot that only overlaps itself succeeds.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	newSlot, err := converter.SlotRequestToEntity(req.NewAppointmentSlot)
	if err != nil {
		return nil, err
	}

	// Read once outside the lock to learn which doctor/day to lock
	current, err := u.findAuthorized(ctx, u.appointmentRepo.FindByID, u.transactor.DB(ctx), req.AppointmentID, userID)
	if err != nil {
		return nil, err
	}

	var appointment *entity.Appointment
	err = u.slotLocker.WithDoctorDayLock(ctx, current.DoctorID, newSlot.Day(), func(ctx context.Context) error {
		return u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
			locked, err := u.appointmentRepo.FindByIDForUpdate(tx, req.AppointmentID)
			if err != nil {
				u.log.Warnf("Failed to lock appointment %s: %+v", req.AppointmentID, err)
				return err
			}
			if locked == nil {
				return ErrAppointmentNotFound
			}
			if locked.IsCancelled() {
				return ErrRescheduleCancelled
			}
			if u.withinLockout(locked.Slot) {
				return ErrRescheduleLockout
			}

			doctor, err := u.doctorRepo.FindByID(tx, locked.DoctorID)
			if err != nil {
				u.log.Warnf("Failed to find doctor %s: %+v", locked.DoctorID, err)
				return err
			}
			if doctor == nil {
				return ErrDoctorNotFound
			}

			if _, ok := u.matcher.FindAvailable(newSlot, doctor.Availability()); !ok {
				return ErrNewSlotNotAvailable
			}

			conflict, err := u.conflictDetector.FindConflict(tx, doctor.ID, newSlot, &locked.ID)
			if err != nil {
				u.log.Warnf("Failed to check conflicts for doctor %s: %+v", doctor.ID, err)
				return err
			}
			if conflict != nil {
				return ErrNewSlotConflict
			}

			oldSlot := locked.Slot
			if err := u.appointmentRepo.UpdateSlot(tx, locked.ID, newSlot); err != nil {
				if isExclusionViolation(err, appointmentOverlapConstraint) {
					return ErrNewSlotConflict
				}
				u.log.Warnf("Failed to reschedule appointment %s: %+v", locked.ID, err)
				return err
			}
			locked.Reschedule(newSlot)

			if err := u.auditService.LogUpdate(tx, &userID, entity.AuditActionAppointmentReschedule, "appointment", locked.ID.String(), converter.SlotToResponse(oldSlot), converter.SlotToResponse(newSlot)); err != nil {
				return err
			}

			locked.Doctor = doctor
			appointment = locked
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment rescheduled: id=%s, slot=%s", appointment.ID, appointment.Slot)
	u.notifyCaller(ctx, userID, RescheduledMessage(appointment.Slot))

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment moves an appointment to the terminal cancelled state.
// Cancelling frees a slot, so no doctor/day lock is taken.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, req *dto.CancelAppointmentRequest) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	var cancelled *entity.Appointment
	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		appointment, err := u.findAuthorized(ctx, u.appointmentRepo.FindByIDForUpdate, tx, req.AppointmentID, userID)
		if err != nil {
			return err
		}
		if appointment.IsCancelled() {
			return ErrAppointmentAlreadyCancelled
		}
		if u.withinLockout(appointment.Slot) {
			return ErrCancelLockout
		}

		if err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, entity.AppointmentStatusCancelled); err != nil {
			u.log.Warnf("Failed to cancel appointment %s: %+v", appointment.ID, err)
			return err
		}
		oldStatus := appointment.Status
		appointment.Cancel()

		if err := u.auditService.LogUpdate(tx, &userID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(), oldStatus, appointment.Status); err != nil {
			return err
		}

		cancelled = appointment
		return nil
	})
	if err != nil {
		return err
	}

	u.log.Infof("Appointment cancelled: id=%s", cancelled.ID)
	u.notifyCaller(ctx, userID, CancelledMessage(cancelled.Slot))

	return nil
}

type appointmentFinder func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)

// findAuthorized loads an appointment with find and checks the caller owns it
// or is an admin. Pass FindByIDForUpdate only with a transaction handle.
func (u *appointmentUsecase) findAuthorized(ctx context.Context, find appointmentFinder, db *gorm.DB, id, userID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := find(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsOwnedBy(userID) && !middleware.IsAdmin(ctx) {
		return nil, ErrAppointmentNotOwned
	}
	return appointment, nil
}

// withinLockout compares the slot's calendar date, not its start time, against now
func (u *appointmentUsecase) withinLockout(slot entity.Slot) bool {
	return slot.Date.Sub(u.now()) < u.lockout
}

// notifyCaller queues an SMS to the caller's phone. Failures are logged only.
func (u *appointmentUsecase) notifyCaller(ctx context.Context, userID uuid.UUID, message string) {
	user, err := u.userRepo.FindByID(u.transactor.DB(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to load user %s for notification: %+v", userID, err)
		return
	}
	if user == nil || user.PhoneNumber() == "" {
		return
	}
	if err := u.notifier.SendSMS(ctx, user.PhoneNumber(), message); err != nil {
		u.log.Warnf("Failed to send SMS to %s: %+v", user.PhoneNumber(), err)
	}
}

func BookedMessage(slot entity.Slot) string {
	return fmt.Sprintf("Your appointment has been booked for %s from %s to %s.", slot.Day(), slot.StartTime, slot.EndTime)
}

func RescheduledMessage(slot entity.Slot) string {
	return fmt.Sprintf("Your appointment has been rescheduled to %s from %s to %s.", slot.Day(), slot.StartTime, slot.EndTime)
}

func CancelledMessage(slot entity.Slot) string {
	return fmt.Sprintf("Your appointment on %s has been cancelled.", slot.Day())
}
