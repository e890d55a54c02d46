package handlers

import (
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/services"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AnnualInspectionHandler handles annual inspection cycle requests.
type AnnualInspectionHandler struct {
	DB     *gorm.DB
	Annual *services.AnnualService
}

// NewAnnualInspectionHandler creates a new AnnualInspectionHandler.
func NewAnnualInspectionHandler(db *gorm.DB, annual *services.AnnualService) *AnnualInspectionHandler {
	return &AnnualInspectionHandler{DB: db, Annual: annual}
}

// CreateAnnualInspectionRequest represents the request body for opening a cycle.
type CreateAnnualInspectionRequest struct {
	VehicleID string `json:"vehicleId" binding:"required"`
	Year      int    `json:"year" binding:"required"`
}

// CreateAnnualInspection handles opening a cycle for a vehicle and year.
func (h *AnnualInspectionHandler) CreateAnnualInspection(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req CreateAnnualInspectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	inspection, err := h.Annual.Create(services.AnnualCreateInput{
		VehicleID: req.VehicleID,
		Year:      req.Year,
	}, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, "Annual inspection created successfully", inspection)
}

// GetAnnualInspections handles the role-scoped cycle listing.
func (h *AnnualInspectionHandler) GetAnnualInspections(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	filter := services.AnnualListFilter{
		VehicleID: c.Query("vehicleId"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "pageSize", 10),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AnnualStatus(raw)
		filter.Status = &status
	}
	if year := queryInt(c, "year", 0); year != 0 {
		filter.Year = &year
	}

	inspections, total, err := h.Annual.List(filter, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Annual inspections fetched successfully", pagedResponse{
		Items:    inspections,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// GetAnnualInspectionByID handles fetching one cycle.
func (h *AnnualInspectionHandler) GetAnnualInspectionByID(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	inspection, err := h.Annual.Get(c.Param("id"), user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Annual inspection fetched successfully", inspection)
}

// UpdateAnnualInspectionRequest represents the request body for the
// administrative status override.
type UpdateAnnualInspectionRequest struct {
	Status models.AnnualStatus `json:"status" binding:"required,oneof=PENDING IN_PROGRESS PASSED FAILED"`
}

// UpdateAnnualInspection handles the admin-only direct status correction.
func (h *AnnualInspectionHandler) UpdateAnnualInspection(c *gin.Context) {
	var req UpdateAnnualInspectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	inspection, err := h.Annual.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Annual inspection updated successfully", inspection)
}

// DeleteAnnualInspection handles the admin-only cascading delete.
func (h *AnnualInspectionHandler) DeleteAnnualInspection(c *gin.Context) {
	if err := h.Annual.Delete(c.Param("id")); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Annual inspection deleted successfully", nil)
}

// GetAnnualInspectionStats returns appointment statistics for one cycle.
func (h *AnnualInspectionHandler) GetAnnualInspectionStats(c *gin.Context) {
	stats, err := h.Annual.Stats(c.Param("id"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Statistics fetched successfully", stats)
}
