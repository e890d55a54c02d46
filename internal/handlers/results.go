package handlers

import (
	"strconv"
	"vehicle-inspection-server/internal/services"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ResultHandler handles inspection result requests.
type ResultHandler struct {
	DB      *gorm.DB
	Results *services.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(db *gorm.DB, results *services.ResultService) *ResultHandler {
	return &ResultHandler{DB: db, Results: results}
}

// GetResults handles the role-scoped result listing.
func (h *ResultHandler) GetResults(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	filter := services.ResultListFilter{
		VehicleID: c.Query("vehicleId"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "pageSize", 10),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "Invalid year parameter")
			return
		}
		filter.Year = &year
	}
	if raw := c.Query("passed"); raw != "" {
		passed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.BadRequest(c, "Invalid passed parameter")
			return
		}
		filter.PassedOnly = &passed
	}

	results, total, err := h.Results.List(filter, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Inspection results fetched successfully", pagedResponse{
		Items:    results,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// GetResultByID fetches a single result with its item checks.
func (h *ResultHandler) GetResultByID(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	result, err := h.Results.Get(c.Param("id"), user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Inspection result fetched successfully", result)
}
