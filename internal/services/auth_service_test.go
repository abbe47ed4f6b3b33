package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-board/announcements-service/internal/auth"
	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/validator"
)

func newAuthFixture(t *testing.T) (AuthService, *mockRepository, *auth.TokenManager) {
	t.Helper()
	repo := newMockRepository()
	tokens := auth.NewTokenManager("test-secret", 7*24*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAuthService(repo, tokens, logger, validator.New())
	return service, repo, tokens
}

func TestLoginCreatesAccountOnce(t *testing.T) {
	service, repo, tokens := newAuthFixture(t)
	ctx := context.Background()

	req := &LoginRequest{Email: "fresh@uni.edu", Password: "s3cret-pass"}

	first, err := service.LoginOrRegister(ctx, req)
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if !first.IsNewUser {
		t.Error("first login: IsNewUser = false, want true")
	}
	if first.User.Role != models.RoleUser {
		t.Errorf("new account role = %q, want %q", first.User.Role, models.RoleUser)
	}
	if repo.users.count() != 1 {
		t.Fatalf("account count = %d, want 1", repo.users.count())
	}

	identity, err := tokens.Verify(first.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if identity.UserID != first.User.ID || identity.Email != first.User.Email || identity.Role != first.User.Role {
		t.Errorf("token identity = %+v, want account %+v", identity, first.User)
	}

	second, err := service.LoginOrRegister(ctx, req)
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if second.IsNewUser {
		t.Error("second login: IsNewUser = true, want false")
	}
	if second.User.ID != first.User.ID {
		t.Errorf("second login account = %q, want %q", second.User.ID, first.User.ID)
	}
	if repo.users.count() != 1 {
		t.Errorf("account count after relogin = %d, want 1", repo.users.count())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := service.LoginOrRegister(ctx, &LoginRequest{Email: "x@uni.edu", Password: "correct-pass"}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, err := service.LoginOrRegister(ctx, &LoginRequest{Email: "x@uni.edu", Password: "wrong-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	service, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	first, err := service.LoginOrRegister(ctx, &LoginRequest{Email: "Mixed.Case@Uni.EDU", Password: "pw123456"})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	second, err := service.LoginOrRegister(ctx, &LoginRequest{Email: "mixed.case@uni.edu", Password: "pw123456"})
	if err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	if second.IsNewUser || second.User.ID != first.User.ID {
		t.Errorf("case-variant login created a second account")
	}
	if repo.users.count() != 1 {
		t.Errorf("account count = %d, want 1", repo.users.count())
	}
}

func TestLoginValidation(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *LoginRequest
	}{
		{name: "missing email", req: &LoginRequest{Password: "pw123456"}},
		{name: "missing password", req: &LoginRequest{Email: "a@uni.edu"}},
		{name: "malformed email", req: &LoginRequest{Email: "not-an-email", Password: "pw123456"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.LoginOrRegister(ctx, tt.req)
			if !validator.IsValidationError(err) {
				t.Errorf("error = %v, want ValidationErrors", err)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	service, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	result, err := service.LoginOrRegister(ctx, &LoginRequest{Email: "me@uni.edu", Password: "pw123456"})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	t.Run("resolves valid token", func(t *testing.T) {
		user, err := service.CurrentUser(ctx, result.Token)
		if err != nil {
			t.Fatalf("CurrentUser failed: %v", err)
		}
		if user.ID != result.User.ID || user.Email != "me@uni.edu" {
			t.Errorf("user = %+v, want %+v", user, result.User)
		}
	})

	t.Run("no token", func(t *testing.T) {
		if _, err := service.CurrentUser(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := service.CurrentUser(ctx, "garbage"); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("account removed", func(t *testing.T) {
		repo.users.remove(result.User.ID)
		if _, err := service.CurrentUser(ctx, result.Token); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
	})
}
