package handlers

import (
	"vehicle-inspection-server/internal/services"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// CheckItemHandler handles check item template catalog requests.
type CheckItemHandler struct {
	CheckItems *services.CheckItemService
}

// NewCheckItemHandler creates a new CheckItemHandler.
func NewCheckItemHandler(checkItems *services.CheckItemService) *CheckItemHandler {
	return &CheckItemHandler{CheckItems: checkItems}
}

// GetCheckItems lists the check item catalog in ordinal order.
func (h *CheckItemHandler) GetCheckItems(c *gin.Context) {
	templates, err := h.CheckItems.List()
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Check items fetched successfully", templates)
}

// GetCheckItemByID fetches a single check item template.
func (h *CheckItemHandler) GetCheckItemByID(c *gin.Context) {
	template, err := h.CheckItems.Get(c.Param("id"))
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Check item fetched successfully", template)
}

// CreateCheckItemRequest represents the request body for creating a check item
// template.
type CreateCheckItemRequest struct {
	Code        string `json:"code" binding:"required,min=2,max=32"`
	Description string `json:"description" binding:"required"`
	Ordinal     int    `json:"ordinal" binding:"required,min=1"`
}

// CreateCheckItem handles adding a new check item template (admin only).
func (h *CheckItemHandler) CreateCheckItem(c *gin.Context) {
	var req CreateCheckItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	template, err := h.CheckItems.Create(req.Code, req.Description, req.Ordinal)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, "Check item created successfully", template)
}

// UpdateCheckItemRequest represents the request body for updating a check item
// template description.
type UpdateCheckItemRequest struct {
	Description string `json:"description" binding:"required"`
}

// UpdateCheckItem handles updating a check item template (admin only).
func (h *CheckItemHandler) UpdateCheckItem(c *gin.Context) {
	var req UpdateCheckItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	template, err := h.CheckItems.Update(c.Param("id"), req.Description)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, "Check item updated successfully", template)
}
