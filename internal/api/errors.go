package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-laundry-backend/internal/slot"
	"campus-laundry-backend/internal/store"
)

// Error kinds carried on every failure response.
const (
	kindValidation = "validation"
	kindNotFound   = "not_found"
	kindConflict   = "conflict"
	kindUpstream   = "upstream"
)

// respondError maps the store and slot error taxonomy onto HTTP statuses:
// validation 400, not-found 404, conflict 409, everything else 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := kindUpstream
	message := "Database error"

	switch {
	case errors.Is(err, slot.ErrInvalidTimeFormat):
		status, kind, message = http.StatusBadRequest, kindValidation, err.Error()
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrMachineNotFound),
		errors.Is(err, store.ErrReservationNotFound),
		errors.Is(err, store.ErrLostItemNotFound):
		status, kind, message = http.StatusNotFound, kindNotFound, err.Error()
	case errors.Is(err, store.ErrSlotConflict):
		status, kind = http.StatusConflict, kindConflict
		message = "This time slot is already reserved. Please choose a different time."
	case errors.Is(err, store.ErrDuplicateStudentID):
		status, kind, message = http.StatusConflict, kindConflict, err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"success": false, "kind": kind, "message": message})
}

// respondValidation rejects a malformed request body or parameter.
func respondValidation(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "kind": kindValidation, "message": message})
}
