package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking occupies [AppointmentTime, EndTime) on AppointmentDate while its
// status is not cancelado. Price and IsPromo are snapshots taken at creation.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Contact string `gorm:"size:100;not null" json:"contact"`

	ProcedureID uint      `gorm:"not null;index" json:"procedure_id"`
	Procedure   Procedure `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"procedure"`

	AppointmentDate string `gorm:"size:10;not null;index" json:"appointment_date"`
	AppointmentTime string `gorm:"size:5;not null" json:"appointment_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`

	Price   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsPromo bool            `gorm:"default:false" json:"is_promo"`

	Status string `gorm:"size:20;not null;default:'pendente';index" json:"status"`

	UserID             *uint  `gorm:"index" json:"user_id"`
	AdminNotes         string `gorm:"size:500" json:"admin_notes"`
	ExternalCalendarID string `gorm:"size:255" json:"external_calendar_id,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
