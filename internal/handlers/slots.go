package handlers

import (
	"time"
	"vehicle-inspection-server/internal/middleware"
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/services"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// SlotHandler handles availability slot requests.
type SlotHandler struct {
	Slots *services.SlotService
}

// NewSlotHandler creates a new SlotHandler.
func NewSlotHandler(slots *services.SlotService) *SlotHandler {
	return &SlotHandler{Slots: slots}
}

// CreateSlotRequest represents the request body for creating a slot.
type CreateSlotRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
}

// CreateSlot handles creating an availability slot (admin). The end time is
// derived from the configured slot duration.
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req CreateSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	slot, err := h.Slots.Create(req.StartTime)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, "Slot created successfully", slot)
}

// GetSlots handles listing slots. Only back-office callers may opt into
// seeing booked slots.
func (h *SlotHandler) GetSlots(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	includeBooked := false
	if c.Query("includeBooked") == "true" {
		role, _ := middleware.GetUserRoleFromContext(c)
		if role != models.RoleAdmin {
			utils.Forbidden(c, "Only administrators can list booked slots")
			return
		}
		includeBooked = true
	}

	slots, err := h.Slots.List(from, to, includeBooked)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Slots fetched successfully", slots)
}

// GetSlotByID handles fetching one slot.
func (h *SlotHandler) GetSlotByID(c *gin.Context) {
	slot, err := h.Slots.Get(c.Param("id"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Slot fetched successfully", slot)
}

// DeleteSlot handles deleting an unbooked slot (admin).
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	if err := h.Slots.Delete(c.Param("id")); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Slot deleted successfully", nil)
}
