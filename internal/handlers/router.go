package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-board/announcements-service/internal/auth"
	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/services"
	"github.com/campus-board/announcements-service/internal/utils"
)

type HandlerManager struct {
	authHandler *AuthHandler
	postHandler *PostHandler
	gateway     *AuthGateway
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler: NewAuthHandler(serviceManager.Auth(), logger),
		postHandler: NewPostHandler(serviceManager.Post(), serviceManager.Export(), logger),
		gateway:     NewAuthGateway(tokens),
	}
}

// SetupRoutes sets up all page and API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Every inbound request traverses the page gateway; it only acts on
	// the admin page prefixes.
	router.Use(hm.gateway.PageGate())

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/login", hm.authHandler.Login)
			user.GET("/login", hm.authHandler.Me)
		}

		posts := api.Group("/posts")
		{
			// Reads are public; the viewer's role only shapes visibility.
			posts.GET("", hm.gateway.OptionalAuth(), hm.postHandler.ListPosts)
			posts.GET("/:id", hm.postHandler.GetPost)

			// Writes and exports are admin only.
			admin := posts.Group("")
			admin.Use(hm.gateway.AuthRequired(), hm.gateway.RequireRole(models.RoleAdmin))
			{
				admin.POST("/create", hm.postHandler.CreatePost)
				admin.PUT("/create", hm.postHandler.UpdatePost)
				admin.DELETE("/delete", hm.postHandler.DeletePost)
				admin.GET("/export", hm.postHandler.ExportPosts)
			}
		}
	}

	// Admin pages, admitted by the gateway above.
	router.GET("/create", hm.postHandler.ComposerData)
	router.GET("/post/:id", hm.postHandler.GetPost)
	router.GET("/post/:id/edit", hm.postHandler.GetPost)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "announcements-service",
		})
	})
}
