package models

import "time"

type BlockKind string

const (
	BlockManual            BlockKind = "block"
	BlockOverrideBlock     BlockKind = "override_block"
	BlockOverrideAvailable BlockKind = "override_available"
)

func (k BlockKind) Valid() bool {
	switch k {
	case BlockManual, BlockOverrideBlock, BlockOverrideAvailable:
		return true
	}
	return false
}

// Block is one ad-hoc interval on a date. Recurring blocks are expanded at
// creation time into independent rows sharing a SeriesID.
type Block struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date      string    `gorm:"size:10;not null;index" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	Kind      BlockKind `gorm:"size:20;not null;default:'block'" json:"kind"`
	Reason    string    `gorm:"size:255" json:"reason"`
	SeriesID  string    `gorm:"size:36;index" json:"series_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
