package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-board/announcements-service/internal/auth"
	"github.com/campus-board/announcements-service/internal/models"
)

func newGatewayFixture(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	gateway := NewAuthGateway(tokens)

	router := gin.New()
	router.Use(gateway.PageGate())
	router.GET("/create", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admitted": true})
	})
	router.GET("/post/:id/edit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admitted": true})
	})
	router.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"open": true})
	})
	router.POST("/api/posts/create",
		gateway.AuthRequired(),
		gateway.RequireRole(models.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"userId": c.GetString("user_id")})
		},
	)
	return router, tokens
}

func issueToken(t *testing.T, tokens *auth.TokenManager, role models.UserRole) string {
	t.Helper()
	token, err := tokens.Issue("user-1", "someone@uni.edu", role)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func pageRequest(router *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: cookie})
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func locationQuery(t *testing.T, recorder *httptest.ResponseRecorder) url.Values {
	t.Helper()
	location, err := url.Parse(recorder.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location header: %v", err)
	}
	return location.Query()
}

func TestPageGateRedirectsAnonymousToLogin(t *testing.T) {
	router, _ := newGatewayFixture(t)

	recorder := pageRequest(router, "/create", "")
	if recorder.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", recorder.Code)
	}
	if !strings.HasPrefix(recorder.Header().Get("Location"), "/auth?") {
		t.Fatalf("Location = %q, want login page", recorder.Header().Get("Location"))
	}
	query := locationQuery(t, recorder)
	if query.Get("error") != "authentication_required" {
		t.Errorf("error = %q, want authentication_required", query.Get("error"))
	}
	if query.Get("redirect") != "/create" {
		t.Errorf("redirect = %q, want original path preserved", query.Get("redirect"))
	}
}

func TestPageGateClearsBadToken(t *testing.T) {
	router, _ := newGatewayFixture(t)

	recorder := pageRequest(router, "/post/abc/edit", "not-a-token")
	if recorder.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", recorder.Code)
	}
	query := locationQuery(t, recorder)
	if query.Get("error") != "invalid_token" {
		t.Errorf("error = %q, want invalid_token", query.Get("error"))
	}
	if query.Get("message") != "Please login again" {
		t.Errorf("message = %q, want relogin prompt", query.Get("message"))
	}

	cleared := false
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == TokenCookieName && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("stale cookie was not cleared")
	}
}

func TestPageGateRejectsExpiredToken(t *testing.T) {
	router, _ := newGatewayFixture(t)
	expired := auth.NewTokenManager("test-secret", -time.Hour)

	recorder := pageRequest(router, "/create", issueToken(t, expired, models.RoleAdmin))
	if recorder.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", recorder.Code)
	}
	if got := locationQuery(t, recorder).Get("error"); got != "invalid_token" {
		t.Errorf("error = %q, want invalid_token", got)
	}
}

func TestPageGateSendsNonAdminsHome(t *testing.T) {
	router, tokens := newGatewayFixture(t)

	recorder := pageRequest(router, "/create", issueToken(t, tokens, models.RoleUser))
	if recorder.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", recorder.Code)
	}
	location := recorder.Header().Get("Location")
	if !strings.HasPrefix(location, "/?") {
		t.Fatalf("Location = %q, want home", location)
	}
	query := locationQuery(t, recorder)
	if query.Get("error") != "unauthorized" || query.Get("message") != "Admin access required" {
		t.Errorf("query = %v, want unauthorized with admin message", query)
	}
}

func TestPageGateAdmitsAdmins(t *testing.T) {
	router, tokens := newGatewayFixture(t)

	recorder := pageRequest(router, "/create", issueToken(t, tokens, models.RoleAdmin))
	if recorder.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", recorder.Code)
	}
}

func TestPageGateIgnoresOpenPaths(t *testing.T) {
	router, _ := newGatewayFixture(t)

	recorder := pageRequest(router, "/open", "")
	if recorder.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without a token", recorder.Code)
	}
}

func TestAPIAuthRequired(t *testing.T) {
	router, tokens := newGatewayFixture(t)

	apiRequest := func(token string, viaHeader bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/create", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			if viaHeader {
				req.Header.Set("Authorization", "Bearer "+token)
			} else {
				req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
			}
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("missing token", func(t *testing.T) {
		if got := apiRequest("", false).Code; got != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", got)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if got := apiRequest("garbage", false).Code; got != http.StatusForbidden {
			t.Errorf("status = %d, want 403", got)
		}
	})

	t.Run("non-admin token", func(t *testing.T) {
		if got := apiRequest(issueToken(t, tokens, models.RoleUser), false).Code; got != http.StatusForbidden {
			t.Errorf("status = %d, want 403", got)
		}
	})

	t.Run("admin via cookie", func(t *testing.T) {
		if got := apiRequest(issueToken(t, tokens, models.RoleAdmin), false).Code; got != http.StatusCreated {
			t.Errorf("status = %d, want 201", got)
		}
	})

	t.Run("admin via bearer header", func(t *testing.T) {
		if got := apiRequest(issueToken(t, tokens, models.RoleAdmin), true).Code; got != http.StatusCreated {
			t.Errorf("status = %d, want 201", got)
		}
	})
}
