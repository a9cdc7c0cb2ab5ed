// Package engine decides reservation acceptance and projects per-slot
// availability. It holds no state of its own: every function is a pure
// computation over the reservation set handed to it, so a projection can
// never go stale relative to anything but its input.
package engine

import (
	"time"

	"campus-laundry-backend/internal/model"
	"campus-laundry-backend/internal/slot"
)

// Machine availability statuses.
const (
	MachineAvailable = "available"
	MachineInUse     = "in-use"
)

// Overlaps reports whether [s, e) and [start, end) share at least one
// instant. Intervals are half-open, so back-to-back blocks that meet
// only at a boundary point do not overlap.
func Overlaps(s, e, start, end time.Time) bool {
	if (s.Before(start) || s.Equal(start)) && start.Before(e) {
		return true
	}
	if s.Before(end) && (end.Before(e) || end.Equal(e)) {
		return true
	}
	if (start.Before(s) || start.Equal(s)) && (e.Before(end) || e.Equal(end)) {
		return true
	}
	return false
}

// CheckConflict reports whether the candidate [start, end) interval
// collides with any active reservation in existing. Inactive rows are
// skipped so a cancelled booking never blocks a slot.
func CheckConflict(start, end time.Time, existing []model.Reservation) bool {
	for i := range existing {
		r := &existing[i]
		if !r.IsActive() {
			continue
		}
		if Overlaps(r.StartTime, r.EndTime, start, end) {
			return true
		}
	}
	return false
}

// SlotAvailability is one catalog slot's availability on the projected day.
type SlotAvailability struct {
	Label     string `json:"time"`
	Available bool   `json:"available"`
}

// MachineAvailability is a machine's full slot projection for one day.
type MachineAvailability struct {
	MachineID     int64              `json:"machine_id"`
	MachineNumber int                `json:"machine_number"`
	Location      string             `json:"location"`
	Status        string             `json:"status"`
	Slots         []SlotAvailability `json:"slots"`
}

// ProjectAvailability computes, for every machine and every catalog slot,
// whether the slot is still bookable on the given calendar day (YYYY-MM-DD
// in the facility timezone).
//
// A slot is taken iff an active reservation on that machine starts on that
// day at the slot's label. Reservations that carry a display number are
// matched by it; the rest fall back to raw machine-id equality. The result
// is always recomputed from the full reservation set, never patched up
// from a previous projection.
func ProjectAvailability(machines []model.Machine, reservations []model.Reservation, today string) []MachineAvailability {
	out := make([]MachineAvailability, 0, len(machines))

	for _, m := range machines {
		ma := MachineAvailability{
			MachineID:     m.ID,
			MachineNumber: m.DisplayNumber,
			Location:      m.Location,
			Status:        MachineInUse,
			Slots:         make([]SlotAvailability, 0, len(slot.Catalog)),
		}

		for _, label := range slot.Catalog {
			taken := false
			for i := range reservations {
				r := &reservations[i]
				if !r.IsActive() {
					continue
				}
				if r.MachineNo != 0 {
					if r.MachineNo != m.DisplayNumber {
						continue
					}
				} else if r.MachineID != m.ID {
					continue
				}
				if slot.LabelAt(r.StartTime) != label {
					continue
				}
				if r.StartTime.Format("2006-01-02") != today {
					continue
				}
				taken = true
				break
			}

			if !taken {
				ma.Status = MachineAvailable
			}
			ma.Slots = append(ma.Slots, SlotAvailability{Label: label, Available: !taken})
		}

		out = append(out, ma)
	}

	return out
}
