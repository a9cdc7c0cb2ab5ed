package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"campus-laundry-backend/internal/model"
	"campus-laundry-backend/internal/slot"
)

// CreateReservation persists a pending reservation after verifying the
// candidate interval against every active reservation on the machine.
//
// The check and the insert run in one transaction; on PostgreSQL the
// reservations_no_overlap exclusion constraint additionally guarantees
// that a racing request which slipped past the check fails atomically at
// commit instead of double-booking the slot. Either path surfaces as
// ErrSlotConflict.
func (s *gormStore) CreateReservation(ctx context.Context, userID, machineID int64, start, end time.Time) (model.Reservation, error) {
	reservation := model.Reservation{
		UserID:    userID,
		MachineID: machineID,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clashes int64
		err := tx.Model(&model.Reservation{}).
			Where("machine_id = ? AND status IN ?", machineID, model.ActiveStatuses).
			Where("start_time < ? AND end_time > ?", end, start).
			Count(&clashes).Error
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if clashes > 0 {
			return ErrSlotConflict
		}

		if err := tx.Create(&reservation).Error; err != nil {
			if isExclusionViolation(err) {
				return ErrSlotConflict
			}
			return fmt.Errorf("failed to insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return reservation, nil
}

// isExclusionViolation recognizes PostgreSQL's exclusion constraint
// failure (SQLSTATE 23P01) raised by reservations_no_overlap.
func isExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23P01") || strings.Contains(msg, "reservations_no_overlap")
}

// ListReservations returns every reservation, newest first, each
// annotated with its machine's display number when resolvable.
func (s *gormStore) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return s.annotateDisplayNumbers(ctx, reservations)
}

// ActiveReservations returns all pending and confirmed reservations,
// annotated the same way. This is the availability projection's input.
func (s *gormStore) ActiveReservations(ctx context.Context) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Where("status IN ?", model.ActiveStatuses).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return s.annotateDisplayNumbers(ctx, reservations)
}

func (s *gormStore) annotateDisplayNumbers(ctx context.Context, reservations []model.Reservation) ([]model.Reservation, error) {
	if len(reservations) == 0 {
		return reservations, nil
	}

	var machines []model.Machine
	if err := s.db.WithContext(ctx).Find(&machines).Error; err != nil {
		return nil, err
	}
	numberByID := make(map[int64]int, len(machines))
	for _, m := range machines {
		numberByID[m.ID] = m.DisplayNumber
	}

	for i := range reservations {
		reservations[i].MachineNo = numberByID[reservations[i].MachineID]
	}
	return reservations, nil
}

// ConfirmReservation transitions a reservation from pending to confirmed.
// Confirming an already confirmed reservation is a no-op that returns the
// row unchanged.
func (s *gormStore) ConfirmReservation(ctx context.Context, id int64) (model.Reservation, error) {
	var reservation model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&reservation, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		if err != nil {
			return err
		}
		if reservation.Status == model.StatusConfirmed {
			return nil
		}

		reservation.Status = model.StatusConfirmed
		return tx.Model(&reservation).Update("status", model.StatusConfirmed).Error
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return reservation, nil
}

// DeleteReservation hard-deletes a reservation. A positive requesterID
// restricts deletion to the reservation's owner; a mismatch reports
// not-found rather than revealing the row exists.
func (s *gormStore) DeleteReservation(ctx context.Context, id, requesterID int64) (model.Reservation, error) {
	var reservation model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&reservation, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		if err != nil {
			return err
		}
		if requesterID > 0 && reservation.UserID != requesterID {
			return ErrReservationNotFound
		}
		return tx.Delete(&model.Reservation{}, id).Error
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return reservation, nil
}

// CleanupInvalidReservations removes every reservation whose duration is
// not exactly one slot length. The filter runs in Go so it behaves the
// same on PostgreSQL and the SQLite test database.
func (s *gormStore) CleanupInvalidReservations(ctx context.Context) ([]model.Reservation, error) {
	var all []model.Reservation
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}

	var invalid []model.Reservation
	for _, r := range all {
		if r.EndTime.Sub(r.StartTime) != slot.Duration {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(invalid))
	for i, r := range invalid {
		ids[i] = r.ID
	}
	if err := s.db.WithContext(ctx).Delete(&model.Reservation{}, ids).Error; err != nil {
		return nil, err
	}
	return invalid, nil
}
