package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-laundry-backend/internal/engine"
	"campus-laundry-backend/internal/slot"
)

type createReservationRequest struct {
	StudentID string `json:"student_id"`
	UserID    int64  `json:"user_id"`
	MachineID int    `json:"machine_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateReservation handles POST /api/reservations. The body carries
// either (student_id, machine_id, date, time) with a catalog slot label,
// or (user_id, machine_id, start_time, end_time) with explicit
// timestamps. machine_id is the external display number in both forms.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	userID := req.UserID
	if req.StudentID != "" {
		id, err := h.resolver.Resolve(ctx, req.StudentID)
		if err != nil {
			respondError(c, err)
			return
		}
		userID = id
	}
	if userID <= 0 {
		respondValidation(c, "Missing required fields. Provide either (student_id, machine_id, date, time) or (user_id, machine_id, start_time, end_time)")
		return
	}

	var start, end time.Time
	var err error
	switch {
	case req.StartTime != "" && req.EndTime != "":
		start, err = slot.ParseWallClock(req.StartTime, h.loc)
		if err == nil {
			end, err = slot.ParseWallClock(req.EndTime, h.loc)
		}
	case req.Date != "" && req.Time != "":
		start, end, err = slot.Window(req.Date, req.Time, h.loc)
	default:
		respondValidation(c, "Missing required fields. Provide either (student_id, machine_id, date, time) or (user_id, machine_id, start_time, end_time)")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if !end.After(start) {
		respondValidation(c, "end_time must be after start_time")
		return
	}

	if req.MachineID <= 0 {
		respondValidation(c, "machine_id is required")
		return
	}
	machine, err := h.store.MachineByDisplayNumber(ctx, req.MachineID)
	if err != nil {
		respondError(c, err)
		return
	}

	reservation, err := h.store.CreateReservation(ctx, userID, machine.ID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	reservation.MachineNo = machine.DisplayNumber

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Reservation created successfully",
		"data":    gin.H{"reservation": reservation},
	})
}

// ListReservations handles GET /api/reservations. Every row is annotated
// with its machine's display number so clients can match reservations to
// machine cards.
func (h *Handler) ListReservations(c *gin.Context) {
	reservations, err := h.store.ListReservations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"reservations": reservations},
	})
}

// GetAvailability handles GET /api/reservations/availability: the
// per-slot projection for today's date in the facility timezone, always
// recomputed from the full active reservation set.
func (h *Handler) GetAvailability(c *gin.Context) {
	ctx := c.Request.Context()

	machines, err := h.store.ListMachines(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	active, err := h.store.ActiveReservations(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range active {
		active[i].StartTime = active[i].StartTime.In(h.loc)
	}

	today := time.Now().In(h.loc).Format("2006-01-02")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"date":     today,
			"machines": engine.ProjectAvailability(machines, active, today),
		},
	})
}

type confirmReservationRequest struct {
	ReservationID int64 `json:"reservation_id"`
}

// ConfirmReservation handles POST /api/reservations/confirm. Confirming
// an already confirmed reservation succeeds without changing the row.
func (h *Handler) ConfirmReservation(c *gin.Context) {
	var req confirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ReservationID <= 0 {
		respondValidation(c, "reservation_id is required")
		return
	}

	reservation, err := h.store.ConfirmReservation(c.Request.Context(), req.ReservationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reservation confirmed successfully",
		"data":    gin.H{"reservation": reservation},
	})
}

// DeleteReservation handles DELETE /api/reservations/:id. A user_id query
// parameter restricts deletion to the reservation's owner. Deleting an
// active reservation frees its slot, so the machine's subscribers get a
// push notification.
func (h *Handler) DeleteReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid reservation id")
		return
	}

	var requesterID int64
	if raw := c.Query("user_id"); raw != "" {
		requesterID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidation(c, "invalid user_id")
			return
		}
	}

	reservation, err := h.store.DeleteReservation(c.Request.Context(), id, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	if reservation.IsActive() && h.pool != nil {
		h.pool.Dispatch(reservation.MachineID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reservation deleted successfully",
		"data":    reservation,
	})
}

// CleanupReservations handles POST /api/reservations/cleanup: it removes
// every reservation whose duration is not exactly one slot length.
func (h *Handler) CleanupReservations(c *gin.Context) {
	deleted, err := h.store.CleanupInvalidReservations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cleaned up " + strconv.Itoa(len(deleted)) + " invalid reservations",
		"data":    gin.H{"deleted_reservations": deleted},
	})
}
