package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-laundry-backend/internal/model"
)

type reportLostItemRequest struct {
	UserID        int64  `json:"user_id"`
	ItemName      string `json:"item_name"`
	Description   string `json:"description"`
	LocationFound string `json:"location_found"`
	DateFound     string `json:"date_found"`
	ContactInfo   string `json:"contact_info"`
}

// ReportLostItem handles POST /api/lostfound/report.
func (h *Handler) ReportLostItem(c *gin.Context) {
	var req reportLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}
	if req.ItemName == "" || req.Description == "" || req.LocationFound == "" {
		respondValidation(c, "Item name, description, and location found are required")
		return
	}

	reporterID := req.UserID
	if reporterID <= 0 {
		reporterID = 1
	}

	now := time.Now().In(h.loc)
	dateFound := req.DateFound
	if dateFound == "" {
		dateFound = now.Format("2006-01-02")
	} else {
		parsed, err := time.ParseInLocation("2006-01-02", dateFound, h.loc)
		if err != nil {
			respondValidation(c, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		if parsed.Format("2006-01-02") > now.Format("2006-01-02") {
			respondValidation(c, "Found date cannot be in the future")
			return
		}
	}

	item, err := h.store.CreateLostItem(c.Request.Context(), model.LostItem{
		ReporterID:    reporterID,
		ItemName:      req.ItemName,
		Description:   req.Description,
		LocationFound: req.LocationFound,
		DateFound:     dateFound,
		ContactInfo:   req.ContactInfo,
		Status:        model.LostItemActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Lost and found report created successfully",
		"data":    gin.H{"item": item},
	})
}

func (h *Handler) queryLostItems(c *gin.Context) ([]model.LostItem, int, int, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	items, err := h.store.ListLostItems(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return nil, 0, 0, false
	}
	return items, limit, offset, true
}

// ListLostItemReports handles GET /api/lostfound/reports and returns a
// bare array, the shape the reporting view consumes.
func (h *Handler) ListLostItemReports(c *gin.Context) {
	items, _, _, ok := h.queryLostItems(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListLostItems handles GET /api/lostfound with an enveloped response.
func (h *Handler) ListLostItems(c *gin.Context) {
	items, limit, offset, ok := h.queryLostItems(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lost and found items retrieved successfully",
		"data": gin.H{
			"items":  items,
			"total":  len(items),
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetLostItem handles GET /api/lostfound/:id.
func (h *Handler) GetLostItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid item id")
		return
	}

	item, err := h.store.LostItemByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lost and found item retrieved successfully",
		"data":    gin.H{"item": item},
	})
}

type updateLostItemStatusRequest struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

// UpdateLostItemStatus handles PUT /api/lostfound/:id/status. Only the
// reporter may update an item.
func (h *Handler) UpdateLostItemStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid item id")
		return
	}

	var req updateLostItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}
	switch req.Status {
	case model.LostItemActive, model.LostItemClaimed, model.LostItemExpired:
	default:
		respondValidation(c, "Invalid status. Valid values: active, claimed, expired")
		return
	}

	reporterID := req.UserID
	if reporterID <= 0 {
		reporterID = 1
	}

	item, err := h.store.UpdateLostItemStatus(c.Request.Context(), id, reporterID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lost and found item status updated successfully",
		"data":    gin.H{"item": item},
	})
}

// DeleteLostItem handles DELETE /api/lostfound/:id. Only the reporter
// may delete an item.
func (h *Handler) DeleteLostItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid item id")
		return
	}

	var reporterID int64 = 1
	if raw := c.Query("user_id"); raw != "" {
		reporterID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidation(c, "invalid user_id")
			return
		}
	}

	item, err := h.store.DeleteLostItem(c.Request.Context(), id, reporterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lost and found item deleted successfully",
		"data":    gin.H{"deleted_item": item},
	})
}
