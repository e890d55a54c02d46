package handlers

import (
	"strconv"
	"time"
	"vehicle-inspection-server/internal/middleware"
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser loads the authenticated user set by the auth middleware. On
// failure it writes the error response and returns false.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Authenticated user no longer exists")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &user, true
}

// queryTime parses an optional RFC 3339 query parameter.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		utils.BadRequest(c, "Invalid "+name+" parameter, expected RFC 3339 timestamp")
		return nil, false
	}
	return &parsed, true
}

// queryInt parses an optional integer query parameter, with a default.
func queryInt(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// pagedResponse is the standard shape for paginated listings.
type pagedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}
