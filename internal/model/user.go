package model

import "time"

// User represents a registered student account.
type User struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	StudentID string `gorm:"uniqueIndex;size:64;not null" json:"student_id"`
	Password  string `gorm:"size:128;not null" json:"-"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Email     string `gorm:"size:128" json:"email"`
	Phone     string `gorm:"size:32" json:"phone,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
