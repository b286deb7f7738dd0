package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/train-ticket-booking/internal/config"
	"github.com/iliyamo/train-ticket-booking/internal/middleware"
	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// RegisterPassenger registers order endpoints under /v1.  Passengers and
// admins may book; each sees only their own orders.  The "orders"
// rate-limit scope runs after JWTAuth so buckets can be keyed by user.
func RegisterPassenger(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger, model.RoleAdmin),
		middleware.RateLimit(config.LoadRateLimitConfig("orders", 30), rdb),
	)
	g.POST("/orders", h.Orders.Create)
	g.GET("/orders", h.Orders.List)
	g.GET("/orders/:id", h.Orders.Get)
	g.DELETE("/orders/:id", h.Orders.Cancel)
	g.POST("/tickets/validate", h.Orders.ValidateTicket)
}
