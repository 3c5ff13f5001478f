package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor owns an ordered availability set
type Doctor struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Specialty      string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Qualifications string          `gorm:"type:text" json:"qualifications,omitempty"`
	Experience     int             `gorm:"not null;default:0" json:"experience"`
	Ratings        decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"ratings"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	AvailableSlots []DoctorAvailableSlot `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"available_slots,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Availability returns the declared slots in insertion order.
// Callers must load AvailableSlots ordered by position.
func (d *Doctor) Availability() []Slot {
	slots := make([]Slot, 0, len(d.AvailableSlots))
	for _, s := range d.AvailableSlots {
		slots = append(slots, s.Slot)
	}
	return slots
}

// SetAvailability replaces the availability set, numbering positions from zero
func (d *Doctor) SetAvailability(slots []Slot) {
	d.AvailableSlots = make([]DoctorAvailableSlot, 0, len(slots))
	for i, s := range slots {
		d.AvailableSlots = append(d.AvailableSlots, DoctorAvailableSlot{
			DoctorID: d.ID,
			Position: i,
			Slot:     s,
		})
	}
}

// DoctorAvailableSlot is one entry of a doctor's availability set
type DoctorAvailableSlot struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	DoctorID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position int       `gorm:"not null" json:"-"`
	Slot     Slot      `gorm:"embedded;embeddedPrefix:slot_" json:"slot"`
}

func (DoctorAvailableSlot) TableName() string {
	return "doctor_available_slots"
}

// DoctorFilter is a domain-level filter for querying doctors.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Name          string           // ILIKE
	Specialty     string           // ILIKE
	MinExperience *int             // experience >= value
	MinRatings    *decimal.Decimal // ratings >= value
}
