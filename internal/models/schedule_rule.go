package models

import "time"

// ScheduleRule is the weekly template for one weekday (0=domingo..6=sábado).
// Rules are replaced wholesale, never patched.
type ScheduleRule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Weekday int `gorm:"uniqueIndex;not null" json:"weekday"`

	StartTime  string `gorm:"size:5;not null" json:"start_time"`
	EndTime    string `gorm:"size:5;not null" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	IsActive   bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ScheduleRule) HasLunch() bool {
	return r.LunchStart != "" && r.LunchEnd != ""
}
