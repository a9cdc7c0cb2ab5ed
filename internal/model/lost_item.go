package model

import "time"

// Lost and found item statuses.
const (
	LostItemActive  = "active"
	LostItemClaimed = "claimed"
	LostItemExpired = "expired"
)

// LostItem represents a lost-and-found report filed by a user.
type LostItem struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	ReporterID    int64     `gorm:"index;not null" json:"reporter_id"`
	ItemName      string    `gorm:"size:128;not null" json:"item_name"`
	Description   string    `gorm:"size:1024;not null" json:"description"`
	LocationFound string    `gorm:"size:128;not null" json:"location_found"`
	DateFound     string    `gorm:"size:10;not null" json:"date_found"` // YYYY-MM-DD
	ContactInfo   string    `gorm:"size:256" json:"contact_info,omitempty"`
	Status        string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Filled from the users join when listing.
	ReporterName      string `gorm:"-" json:"reporter_name,omitempty"`
	ReporterStudentID string `gorm:"-" json:"reporter_student_id,omitempty"`
}
