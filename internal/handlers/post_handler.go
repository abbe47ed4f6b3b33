package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-board/announcements-service/internal/repositories"
	"github.com/campus-board/announcements-service/internal/services"
	"github.com/campus-board/announcements-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PostHandler struct {
	BaseHandler
	service services.PostService
	export  services.ExportService
}

func NewPostHandler(service services.PostService, export services.ExportService, logger utils.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// parseFilters reads the filter query parameters. Empty values and the
// "All" placeholder the filter dropdowns send both mean "no constraint".
func parseFilters(c *gin.Context) (repositories.PostFilters, error) {
	var filters repositories.PostFilters

	if v := c.Query("searchTerm"); v != "" {
		filters.SearchTerm = &v
	}
	if v := c.Query("department"); v != "" && v != "All" {
		filters.Department = &v
	}
	if v := c.Query("tag"); v != "" && v != "All" {
		filters.Tag = &v
	}
	if v := c.Query("minCGPA"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, fmt.Errorf("minCGPA must be a number")
		}
		filters.MinCGPA = &threshold
	}

	return filters, nil
}

// ListPosts handles GET /api/posts: the filtered feed plus the facet values
// for the filter controls. Deadline-expired posts are hidden from everyone
// but admins.
func (h *PostHandler) ListPosts(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := h.service.List(c.Request.Context(), filters, viewerRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPost handles GET /api/posts/:id and the admin post pages.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost handles POST /api/posts/create.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req services.PostSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdatePost handles PUT /api/posts/create: a full-record replace of the
// post named by the id field.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req services.PostSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	resp, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type deletePostRequest struct {
	ID string `json:"id"`
}

// DeletePost handles DELETE /api/posts/delete.
func (h *PostHandler) DeletePost(c *gin.Context) {
	var req deletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Post ID is required"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted successfully"})
}

// ExportPosts handles GET /api/posts/export: the full announcement table as
// an xlsx download.
func (h *PostHandler) ExportPosts(c *gin.Context) {
	data, err := h.export.ExportPosts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("announcements-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ComposerData handles GET /create for admitted admins: the identity the
// composer page renders with.
func (h *PostHandler) ComposerData(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Access token required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    identity.UserID,
			"email": identity.Email,
			"role":  identity.Role,
		},
	})
}
