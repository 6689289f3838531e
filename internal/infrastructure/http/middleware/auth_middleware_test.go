package middleware

import (
	"context"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
)

type fakeUsers map[string]*entities.User

func (f fakeUsers) FindByExternalID(_ context.Context, externalID string) (*entities.User, error) {
	if u, ok := f[externalID]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

func newManager(t *testing.T) *jwt.Manager {
	t.Helper()
	m, err := jwt.NewManager("", "test-secret", "")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func run(t *testing.T, mw []echo.MiddlewareFunc, header string) (echo.Context, int, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/teams", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	err := h(c)
	return c, rec.Code, err
}

func appErrCode(err error) int {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr.HTTPCode
	}
	return 0
}

func TestEchoAuth(t *testing.T) {
	m := newManager(t)
	orgID := uuid.New()
	user := &entities.User{ID: uuid.New(), ExternalID: "user_1", Role: entities.RoleManager, OrganizationID: &orgID}
	users := fakeUsers{"user_1": user}

	valid, _ := m.GenerateToken("user_1", time.Minute)
	unknown, _ := m.GenerateToken("user_2", time.Minute)
	expired, _ := m.GenerateToken("user_1", -time.Minute)

	t.Run("missing token", func(t *testing.T) {
		_, _, err := run(t, []echo.MiddlewareFunc{EchoAuth(m, users, nil)}, "")
		if appErrCode(err) != http.StatusUnauthorized {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		_, _, err := run(t, []echo.MiddlewareFunc{EchoAuth(m, users, nil)}, "Bearer "+expired)
		var appErr errors.AppError
		if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_AUTH_TOKEN_EXPIRED {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unprovisioned user", func(t *testing.T) {
		_, _, err := run(t, []echo.MiddlewareFunc{EchoAuth(m, users, nil)}, "Bearer "+unknown)
		if appErrCode(err) != http.StatusUnauthorized {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("valid token sets principal", func(t *testing.T) {
		c, code, err := run(t, []echo.MiddlewareFunc{EchoAuth(m, users, nil)}, "Bearer "+valid)
		if err != nil || code != http.StatusOK {
			t.Fatalf("code = %d, err = %v", code, err)
		}
		p, ok := GetPrincipal(c)
		if !ok || p.UserID != user.ID || p.Role != entities.RoleManager || *p.OrganizationID != orgID {
			t.Fatalf("principal = %+v, %v", p, ok)
		}
		if id, ok := GetUserID(c); !ok || id != user.ID {
			t.Fatalf("user id = %v", id)
		}
	})
}

func TestRequireRole(t *testing.T) {
	m := newManager(t)
	admin := &entities.User{ID: uuid.New(), ExternalID: "admin", Role: entities.RoleAdmin}
	member := &entities.User{ID: uuid.New(), ExternalID: "member", Role: entities.RoleUser}
	users := fakeUsers{"admin": admin, "member": member}

	adminToken, _ := m.GenerateToken("admin", time.Minute)
	memberToken, _ := m.GenerateToken("member", time.Minute)

	chain := []echo.MiddlewareFunc{EchoAuth(m, users, nil), RequireRole(entities.RoleAdmin, entities.RoleManager)}

	if _, code, err := run(t, chain, "Bearer "+adminToken); err != nil || code != http.StatusOK {
		t.Fatalf("admin: code = %d, err = %v", code, err)
	}
	if _, _, err := run(t, chain, "Bearer "+memberToken); appErrCode(err) != http.StatusForbidden {
		t.Fatalf("member: err = %v", err)
	}
	if _, _, err := run(t, []echo.MiddlewareFunc{RequireRole(entities.RoleAdmin)}, ""); appErrCode(err) != http.StatusUnauthorized {
		t.Fatalf("anonymous: err = %v", err)
	}
}
