package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-board/announcements-service/internal/auth"
	"github.com/campus-board/announcements-service/internal/services"
	"github.com/campus-board/announcements-service/internal/utils"
	"github.com/campus-board/announcements-service/internal/validator"
)

// ErrorResponse is the JSON error body for API routes.
type ErrorResponse struct {
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// handleServiceError maps service errors onto the HTTP taxonomy. Storage
// failures become opaque 500s; the detail stays in the log.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
	case errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrPostIDRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid password"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Access token required"})
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Invalid or expired token"})
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Post not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
	default:
		utils.FromContext(c, h.logger).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
