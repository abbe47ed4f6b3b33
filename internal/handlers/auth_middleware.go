package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-board/announcements-service/internal/auth"
	"github.com/campus-board/announcements-service/internal/models"
)

// TokenCookieName is the cookie that carries the session token for page
// requests. API clients may send the same token as a Bearer header instead.
const TokenCookieName = "authToken"

// gatedPrefixes are the page paths reserved for administrators. Everything
// else passes through the gateway untouched.
var gatedPrefixes = []string{"/create", "/post"}

// AuthGateway admits or rejects requests based on the session token. Page
// routes get redirects, API routes get JSON errors. Admission is decided
// from the token alone; no storage lookup happens here.
type AuthGateway struct {
	tokens *auth.TokenManager
}

func NewAuthGateway(tokens *auth.TokenManager) *AuthGateway {
	return &AuthGateway{tokens: tokens}
}

// tokenFromRequest extracts the session token, preferring the cookie over
// the Authorization header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func isGatedPath(path string) bool {
	for _, prefix := range gatedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// PageGate guards the admin page routes. Unauthenticated visitors are sent
// to the login page with the original path preserved so they can resume
// after signing in; authenticated non-admins are sent home. Bad tokens also
// get their cookie cleared so the browser does not retry them forever.
func (g *AuthGateway) PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isGatedPath(path) {
			c.Next()
			return
		}

		token := tokenFromRequest(c)
		if token == "" {
			g.redirectToLogin(c, path, "authentication_required", "")
			return
		}

		identity, err := g.tokens.Verify(token)
		if err != nil {
			c.SetCookie(TokenCookieName, "", -1, "/", "", false, true)
			g.redirectToLogin(c, path, "invalid_token", "Please login again")
			return
		}

		if identity.Role != models.RoleAdmin {
			query := url.Values{}
			query.Set("error", "unauthorized")
			query.Set("message", "Admin access required")
			c.Redirect(http.StatusTemporaryRedirect, "/?"+query.Encode())
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

func (g *AuthGateway) redirectToLogin(c *gin.Context, path, errorCode, message string) {
	query := url.Values{}
	query.Set("redirect", path)
	query.Set("error", errorCode)
	if message != "" {
		query.Set("message", message)
	}
	c.Redirect(http.StatusTemporaryRedirect, "/auth?"+query.Encode())
	c.Abort()
}

// AuthRequired rejects API requests without a verifiable token.
func (g *AuthGateway) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Access token required"})
			c.Abort()
			return
		}

		identity, err := g.tokens.Verify(token)
		if err != nil {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets the request through either way. Used where the response shape
// depends on the viewer's role.
func (g *AuthGateway) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if identity, err := g.tokens.Verify(token); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

// RequireRole allows only callers whose role is in the given set. Must run
// after AuthRequired.
func (g *AuthGateway) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := viewerRole(c)
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Admin access required"})
		c.Abort()
	}
}

func setIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set("user_id", identity.UserID)
	c.Set("user_role", identity.Role)
	c.Set("user_email", identity.Email)
}

// viewerRole returns the caller's role, treating anonymous callers as
// regular users.
func viewerRole(c *gin.Context) models.UserRole {
	if value, exists := c.Get("user_role"); exists {
		if role, ok := value.(models.UserRole); ok {
			return role
		}
	}
	return models.RoleUser
}

func identityFromContext(c *gin.Context) *auth.Identity {
	userID := c.GetString("user_id")
	if userID == "" {
		return nil
	}
	return &auth.Identity{
		UserID: userID,
		Email:  c.GetString("user_email"),
		Role:   viewerRole(c),
	}
}
