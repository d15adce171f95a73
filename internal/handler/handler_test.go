package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/utils"
)

const testSecret = "handler-secret"

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fixedRoles map[string]model.Role

func (f fixedRoles) Resolve(_ context.Context, uid string) model.Role {
	if r, ok := f[uid]; ok {
		return r
	}
	return model.RoleBroadcaster
}

// newTestEcho returns an Echo with the validator installed and a group that
// authenticates like the real router.
func newTestEcho(roles fixedRoles) (*echo.Echo, *echo.Group) {
	e := echo.New()
	e.Validator = NewValidator()
	g := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.ResolveRole(roles))
	return e, g
}

func tokenFor(t *testing.T, uid string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, uid, time.Hour, time.Now())
	require.NoError(t, err)
	return tok.Token
}

func call(t *testing.T, e *echo.Echo, method, target, uid, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if uid != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, uid))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
