package model

import "time"

// Machine represents a bookable washing machine.
//
// DisplayNumber is the externally visible machine number (1..N). It is a
// persisted column rather than a rank derived from id ordering at query
// time, so removing an earlier machine does not renumber the rest.
type Machine struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	DisplayNumber int    `gorm:"uniqueIndex;not null" json:"machine_number"`
	Location      string `gorm:"size:128;not null" json:"location"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
