package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-board/announcements-service/internal/config"
	"github.com/campus-board/announcements-service/internal/services"
	"github.com/campus-board/announcements-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Login handles POST /api/user/login. An unknown email registers a new
// account with the supplied password; a known email must present the
// matching one. New accounts answer 201, returning sessions 200.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	result, err := h.service.LoginOrRegister(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Browser clients rely on the cookie for the page gateway; API clients
	// can use the token from the body as a Bearer header.
	maxAge := int(config.TokenTTL / time.Second)
	c.SetCookie(TokenCookieName, result.Token, maxAge, "/", "", false, false)

	status := http.StatusOK
	if result.IsNewUser {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// Me handles GET /api/user/login: it resolves the presented token to the
// current account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), tokenFromRequest(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
