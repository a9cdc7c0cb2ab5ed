package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-laundry-backend/internal/store"
)

// ListMachines handles GET /api/machines, ordered by display number.
func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.store.ListMachines(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}

// GetMachine handles GET /api/machines/:number, looked up by the
// external machine number.
func (h *Handler) GetMachine(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		respondValidation(c, "Invalid machine number format. Must be a number.")
		return
	}

	machine, err := h.store.MachineByDisplayNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

// InitMachines handles GET /api/machines/init: administrative reseed of
// the default eight-machine catalog.
func (h *Handler) InitMachines(c *gin.Context) {
	machines, err := h.store.SeedMachines(c.Request.Context(), store.DefaultMachines())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Machine catalog initialized successfully",
		"machines": machines,
	})
}
