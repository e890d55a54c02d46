package handlers

import (
	"time"
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/services"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB           *gorm.DB
	Appointments *services.AppointmentService
	Completion   *services.CompletionService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, appointments *services.AppointmentService, completion *services.CompletionService) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Appointments: appointments, Completion: completion}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
// Either slotId or dateTime must be supplied.
type CreateAppointmentRequest struct {
	VehicleID          string     `json:"vehicleId" binding:"required"`
	AnnualInspectionID *string    `json:"annualInspectionId"`
	SlotID             *string    `json:"slotId"`
	DateTime           *time.Time `json:"dateTime"`
	InspectorID        *string    `json:"inspectorId"`
}

// CreateAppointment handles booking a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Create(services.AppointmentCreateInput{
		VehicleID:          req.VehicleID,
		AnnualInspectionID: req.AnnualInspectionID,
		SlotID:             req.SlotID,
		DateTime:           req.DateTime,
		InspectorID:        req.InspectorID,
	}, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointments handles the role-scoped appointment listing.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	filter := services.AppointmentListFilter{
		VehicleID:   c.Query("vehicleId"),
		InspectorID: c.Query("inspectorId"),
		From:        from,
		To:          to,
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "pageSize", 10),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		filter.Status = &status
	}

	appointments, total, err := h.Appointments.List(filter, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Appointments fetched successfully", pagedResponse{
		Items:    appointments,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// GetAppointmentByID handles fetching a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	appointment, err := h.Appointments.Get(c.Param("id"), user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentRequest represents the request body for updating an appointment.
type UpdateAppointmentRequest struct {
	DateTime    *time.Time                `json:"dateTime"`
	InspectorID *string                   `json:"inspectorId"`
	Status      *models.AppointmentStatus `json:"status"`
}

// UpdateAppointment handles rescheduling, inspector reassignment and the
// admin status override.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	appointment, err := h.Appointments.Update(c.Param("id"), services.AppointmentUpdateInput{
		DateTime:    req.DateTime,
		InspectorID: req.InspectorID,
		Status:      req.Status,
	}, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// CancelAppointment handles cancelling an appointment and freeing its slot.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	if err := h.Appointments.Cancel(c.Param("id"), user); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", nil)
}

// CompleteAppointmentRequest represents the request body for completing an
// appointment with its scored inspection result.
type CompleteAppointmentRequest struct {
	TotalScore       int    `json:"totalScore" binding:"min=0,max=80"`
	ItemScores       []int  `json:"itemScores" binding:"required"`
	OwnerObservation string `json:"ownerObservation"`
}

// CompleteAppointment handles the assigned inspector finalizing a confirmed
// appointment.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	user, ok := currentUser(c, h.DB)
	if !ok {
		return
	}

	var req CompleteAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Completion.Complete(c.Param("id"), services.CompleteInput{
		TotalScore:       req.TotalScore,
		ItemScores:       req.ItemScores,
		OwnerObservation: req.OwnerObservation,
	}, user)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Appointment completed successfully", appointment)
}

// GetAvailableSlots lists future unbooked slots for booking pickers.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	slots, err := h.Appointments.AvailableSlots(from, to)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", slots)
}
