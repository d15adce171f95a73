package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/config"
	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
	"github.com/cmarinek/red-square-broadcast/internal/utils"
)

type UserStore interface {
	Register(ctx context.Context, email, password, displayName string, role model.Role, cost int) (string, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string, now time.Time) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	log    *slog.Logger
	cfg    config.Config
	users  UserStore
	tokens TokenStore
	roles  middleware.RoleResolver
	now    func() time.Time
}

func NewAuthHandler(log *slog.Logger, cfg config.Config, users UserStore, tokens TokenStore, roles middleware.RoleResolver) *AuthHandler {
	return &AuthHandler{log: log, cfg: cfg, users: users, tokens: tokens, roles: roles, now: time.Now}
}

type registerReq struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"max=120"`
	Role        string `json:"role" validate:"omitempty,oneof=broadcaster screen_owner"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// issue signs an access token and stores a fresh refresh token for uid.
func (h *AuthHandler) issue(ctx context.Context, uid, email string, role model.Role) (authResp, error) {
	now := h.now()
	access, err := utils.NewAccessToken(h.cfg.JWTSecret, uid, h.cfg.AccessTTL, now)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTL, now)
	if err != nil {
		return authResp{}, err
	}
	if err := h.tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userPart{ID: uid, Email: email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}

// Register creates the user with a broadcaster or screen_owner profile and
// returns a token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := c.Validate(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}
	role := model.RoleBroadcaster
	if req.Role != "" {
		role = model.Role(req.Role)
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name, _, _ = strings.Cut(req.Email, "@")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.users.Register(ctx, req.Email, req.Password, name, role, h.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		h.log.Error("register failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	resp, err := h.issue(ctx, uid, req.Email, role)
	if err != nil {
		h.log.Error("issue tokens failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies the password and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, "email/password required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.log.Error("load user failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	resp, err := h.issue(ctx, u.ID, u.Email, h.roles.Resolve(ctx, u.ID))
	if err != nil {
		h.log.Error("issue tokens failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh rotates a valid refresh token: the old one is revoked and a new
// pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.tokens.ValidateRefresh(ctx, hash, h.now())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.tokens.RevokeByHash(ctx, hash); err != nil {
		h.log.Warn("revoke rotated refresh token failed", sl.Err(err))
	}
	u, err := h.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	resp, err := h.issue(ctx, uid, u.Email, h.roles.Resolve(ctx, uid))
	if err != nil {
		h.log.Error("issue tokens failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the refresh token in the body, or every refresh token of
// the bearer when the body has none.
func (h *AuthHandler) Logout(c echo.Context) error {
	var uid string
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if id, err := utils.ParseAccessToken(h.cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			uid = id
		}
	}
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch {
	case raw != "":
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.tokens.ValidateRefresh(ctx, hash, h.now()); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	case uid != "":
		if err := h.tokens.RevokeAllForUser(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	default:
		return badRequest(c, "provide Authorization header or refresh_token")
	}
	return c.NoContent(http.StatusNoContent)
}
