package repository

import (
	"errors"

	"clinic-appointment-api/internal/domain/entity"
	domainRepo "clinic-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func orderedSlots(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("AvailableSlots", orderedSlots).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// FindAll supports optional filters: name, specialty, minimum experience and minimum ratings.
func (r *doctorRepository) FindAll(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.Model(&entity.Doctor{})

	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Specialty != "" {
		query = query.Where("specialty ILIKE ?", "%"+filter.Specialty+"%")
	}
	if filter.MinExperience != nil {
		query = query.Where("experience >= ?", *filter.MinExperience)
	}
	if filter.MinRatings != nil {
		query = query.Where("ratings >= ?", *filter.MinRatings)
	}

	err := query.
		Preload("AvailableSlots", orderedSlots).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Model(doctor).
		Select("name", "specialty", "qualifications", "experience", "ratings").
		Updates(doctor).Error
}

// ReplaceAvailability deletes the current availability set and inserts slots in their given order.
func (r *doctorRepository) ReplaceAvailability(db *gorm.DB, doctorID uuid.UUID, slots []entity.DoctorAvailableSlot) error {
	if err := db.Where("doctor_id = ?", doctorID).Delete(&entity.DoctorAvailableSlot{}).Error; err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}
	for i := range slots {
		slots[i].DoctorID = doctorID
		slots[i].Position = i
	}
	return db.Create(&slots).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}
