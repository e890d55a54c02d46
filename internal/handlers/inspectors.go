package handlers

import (
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InspectorHandler handles inspector roster requests (admin operations,
// plus the roster listing used by assignment pickers).
type InspectorHandler struct {
	DB *gorm.DB
}

// NewInspectorHandler creates a new InspectorHandler.
func NewInspectorHandler(db *gorm.DB) *InspectorHandler {
	return &InspectorHandler{DB: db}
}

// CreateInspectorRequest represents the request body for creating an inspector profile.
type CreateInspectorRequest struct {
	UserID     string `json:"userId" binding:"required"`
	EmployeeID string `json:"employeeId" binding:"required,max=50"`
}

// CreateInspector links a user with the inspector role to an inspector profile (admin).
func (h *InspectorHandler) CreateInspector(c *gin.Context) {
	var req CreateInspectorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if user.Role != models.RoleInspector {
		utils.BadRequest(c, "The user does not have the inspector role")
		return
	}

	var existing models.Inspector
	if err := h.DB.Where("user_id = ? OR employee_id = ?", req.UserID, req.EmployeeID).First(&existing).Error; err == nil {
		utils.Conflict(c, "An inspector profile already exists for this user or employee ID")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	inspector := models.Inspector{
		UserID:     req.UserID,
		EmployeeID: req.EmployeeID,
		Active:     true,
	}
	if err := h.DB.Create(&inspector).Error; err != nil {
		utils.InternalServerError(c, "Failed to create inspector: "+err.Error())
		return
	}

	utils.Created(c, "Inspector created successfully", inspector)
}

// GetInspectors lists inspector profiles. Inactive profiles are included
// only when includeInactive is set.
func (h *InspectorHandler) GetInspectors(c *gin.Context) {
	query := h.DB.Model(&models.Inspector{}).Preload("User")
	if c.Query("includeInactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var inspectors []models.Inspector
	if err := query.Find(&inspectors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch inspectors: "+err.Error())
		return
	}

	utils.Success(c, "Inspectors fetched successfully", inspectors)
}

// GetInspectorByID fetches one inspector profile.
func (h *InspectorHandler) GetInspectorByID(c *gin.Context) {
	var inspector models.Inspector
	if err := h.DB.Preload("User").First(&inspector, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Inspector not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Inspector fetched successfully", inspector)
}

// UpdateInspectorRequest represents the request body for updating an inspector.
type UpdateInspectorRequest struct {
	Active *bool `json:"active"`
}

// UpdateInspector toggles the active flag gating appointment assignment (admin).
func (h *InspectorHandler) UpdateInspector(c *gin.Context) {
	var req UpdateInspectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var inspector models.Inspector
	if err := h.DB.First(&inspector, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Inspector not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Active != nil {
		inspector.Active = *req.Active
	}
	if err := h.DB.Save(&inspector).Error; err != nil {
		utils.InternalServerError(c, "Failed to update inspector: "+err.Error())
		return
	}

	utils.Success(c, "Inspector updated successfully", inspector)
}
