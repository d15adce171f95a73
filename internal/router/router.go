// Package router registers the API routes on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/handler"
	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/model"
)

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers /v1/auth. None of these require an access token;
// logout reads one when present.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers screen discovery. cache wraps the read routes.
func RegisterPublic(e *echo.Echo, s *handler.ScreenHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/screens", cache)
	g.GET("", s.List)
	g.GET("/:id", s.Get)
	g.GET("/:id/slots", s.Slots)
}

// RegisterWebhooks registers the Stripe event endpoint. It authenticates by
// signature, not by access token.
func RegisterWebhooks(e *echo.Echo, stripe *handler.StripeWebhookHandler) {
	e.POST("/v1/webhooks/stripe", stripe.Handle)
}

// Protected groups the handlers behind authentication.
type Protected struct {
	Screens  *handler.ScreenHandler
	Bookings *handler.BookingHandler
	Admin    *handler.AdminHandler
	Account  *handler.AccountHandler
}

// RegisterProtected registers every authenticated route under /v1. Roles
// are resolved per request from the caller's profile.
func RegisterProtected(e *echo.Echo, secret string, roles middleware.RoleResolver, p Protected) {
	auth := e.Group("/v1", middleware.JWTAuth(secret), middleware.ResolveRole(roles))

	auth.GET("/me", p.Account.Me)
	auth.GET("/notifications", p.Account.Notifications)
	auth.POST("/notifications/:id/read", p.Account.MarkRead)

	owner := middleware.RequireRole(model.RoleScreenOwner, model.RoleAdmin)
	auth.POST("/screens", p.Screens.Create, owner)
	auth.PATCH("/screens/:id", p.Screens.Update, owner)
	auth.GET("/owner/screens", p.Screens.Owned, owner)

	auth.POST("/book/:screenId/upload", p.Bookings.Upload)
	auth.GET("/book/:screenId/schedule", p.Bookings.SchedulePreview)
	auth.POST("/book/:screenId/schedule", p.Bookings.Schedule)
	auth.GET("/book/:screenId/payment", p.Bookings.PaymentSummary)
	auth.POST("/book/:screenId/payment", p.Bookings.Pay)
	auth.GET("/confirmation/:bookingId", p.Bookings.Confirmation)
	auth.GET("/dashboard/bookings", p.Bookings.Dashboard)

	admin := auth.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/stats", p.Admin.Stats)
	admin.GET("/users", p.Admin.Users)
	admin.GET("/screens", p.Admin.Screens)
	admin.GET("/bookings", p.Admin.Bookings)
	admin.PATCH("/users/:id/role", p.Admin.SetUserRole)
	admin.PATCH("/bookings/:id/status", p.Admin.SetBookingStatus)
	admin.POST("/screens/:id/toggle", p.Admin.ToggleScreen)
}
