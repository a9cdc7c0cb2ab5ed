package store

import "errors"

// Sentinel errors surfaced by the store. The API layer maps each one to
// a distinct outward status so a client can tell "try another slot" from
// "try another machine".
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrMachineNotFound     = errors.New("machine not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSlotConflict        = errors.New("time slot is already reserved")
	ErrDuplicateStudentID  = errors.New("student id already exists")
	ErrLostItemNotFound    = errors.New("lost and found item not found")
)
