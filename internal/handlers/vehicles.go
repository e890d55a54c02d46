package handlers

import (
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VehicleHandler handles vehicle directory requests.
type VehicleHandler struct {
	DB *gorm.DB
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{DB: db}
}

// CreateVehicleRequest represents the request body for registering a vehicle.
type CreateVehicleRequest struct {
	PlateNumber string `json:"plateNumber" binding:"required,max=20"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	OwnerID     string `json:"ownerId"` // admin only; clients register their own
}

// CreateVehicle handles registering a new vehicle. Clients register vehicles
// for themselves; admins may register on behalf of any owner.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req CreateVehicleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ownerID := user.ID
	if req.OwnerID != "" && req.OwnerID != user.ID {
		if user.Role != models.RoleAdmin {
			utils.Forbidden(c, "Only administrators can register vehicles for other owners")
			return
		}
		var owner models.User
		if err := h.DB.First(&owner, "id = ?", req.OwnerID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Owner not found")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		ownerID = owner.ID
	}

	var existing models.Vehicle
	if err := h.DB.Where("plate_number = ?", req.PlateNumber).First(&existing).Error; err == nil {
		utils.Conflict(c, "A vehicle with this plate number already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	vehicle := models.Vehicle{
		PlateNumber: req.PlateNumber,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		OwnerID:     ownerID,
		IsActive:    true,
	}
	if err := h.DB.Create(&vehicle).Error; err != nil {
		utils.InternalServerError(c, "Failed to create vehicle: "+err.Error())
		return
	}

	utils.Created(c, "Vehicle registered successfully", vehicle)
}

// GetVehicles handles listing vehicles. Clients see only their own.
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	query := h.DB.Model(&models.Vehicle{}).Order("created_at desc")
	if user.Role == models.RoleClient {
		query = query.Where("owner_id = ?", user.ID)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch vehicles: "+err.Error())
		return
	}

	utils.Success(c, "Vehicles fetched successfully", vehicles)
}

// GetVehicleByID handles fetching one vehicle, enforcing client ownership.
func (h *VehicleHandler) GetVehicleByID(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Vehicle not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if user.Role == models.RoleClient && vehicle.OwnerID != user.ID {
		utils.Forbidden(c, "You cannot view this vehicle")
		return
	}

	utils.Success(c, "Vehicle fetched successfully", vehicle)
}

// UpdateVehicleRequest represents the request body for updating a vehicle.
type UpdateVehicleRequest struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	IsActive *bool  `json:"isActive"` // admin only
}

// UpdateVehicle handles updating a vehicle's details.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Vehicle not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if user.Role == models.RoleClient && vehicle.OwnerID != user.ID {
		utils.Forbidden(c, "You cannot modify this vehicle")
		return
	}
	if req.IsActive != nil && user.Role != models.RoleAdmin {
		utils.Forbidden(c, "Only administrators can change vehicle activation")
		return
	}

	if req.Make != "" {
		vehicle.Make = req.Make
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}
	if req.IsActive != nil {
		vehicle.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&vehicle).Error; err != nil {
		utils.InternalServerError(c, "Failed to update vehicle: "+err.Error())
		return
	}

	utils.Success(c, "Vehicle updated successfully", vehicle)
}
