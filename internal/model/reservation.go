package model

import "time"

// Reservation statuses. A reservation counts against a machine's slots
// while it is pending or confirmed; deletion is a hard delete.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// ActiveStatuses are the statuses that occupy a slot for conflict purposes.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// Reservation represents a two-hour booking of a machine by a user.
// EndTime is always exactly StartTime + 2 hours.
type Reservation struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	MachineID int64     `gorm:"index;not null" json:"machine_id"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// MachineNo is the machine's display number, filled in by the store
	// when listing so clients can match reservations to machine cards.
	MachineNo int `gorm:"-" json:"machine_no,omitempty"`
}

// IsActive reports whether the reservation occupies its slot.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}
