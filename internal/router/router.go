package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/train-ticket-booking/internal/config"
	"github.com/iliyamo/train-ticket-booking/internal/handler"
	"github.com/iliyamo/train-ticket-booking/internal/middleware"
)

// Cache groups.  A write to one resource purges the groups whose
// responses embed it: route lists show station names and train
// responses show the type name.
const (
	groupStations   = "stations"
	groupRoutes     = "routes"
	groupTrainTypes = "train-types"
	groupTrains     = "trains"
)

// Handlers bundles every resource handler the API exposes.
type Handlers struct {
	Auth       *handler.AuthHandler
	Stations   *handler.StationHandler
	Routes     *handler.RouteHandler
	TrainTypes *handler.TrainTypeHandler
	Trains     *handler.TrainHandler
	Crew       *handler.CrewHandler
	Journeys   *handler.JourneyHandler
	Orders     *handler.OrderHandler
}

// RegisterRoutes registers the operational endpoints: a health check
// that pings the database and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes.  Register,
// login, refresh and logout share the "auth" rate-limit scope.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.RateLimit(config.LoadRateLimitConfig("auth", 10), rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Accepts a refresh_token body or a bearer token; no JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1/me", middleware.JWTAuth(jwtSecret))
	auth.GET("", a.Me)
}

// RegisterPublic registers unauthenticated read endpoints.  Reference
// data is served through the response cache; journeys are not, since
// their availability changes with every booking.
func RegisterPublic(e *echo.Echo, h Handlers, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := func(group string) echo.MiddlewareFunc {
		return middleware.ResponseCache(cacheCfg, rdb, group)
	}

	e.GET("/v1/stations", h.Stations.List, cached(groupStations))
	e.GET("/v1/stations/:id", h.Stations.Get, cached(groupStations))
	e.GET("/v1/routes", h.Routes.List, cached(groupRoutes))
	e.GET("/v1/routes/:id", h.Routes.Get, cached(groupRoutes))
	e.GET("/v1/train-types", h.TrainTypes.List, cached(groupTrainTypes))
	e.GET("/v1/trains", h.Trains.List, cached(groupTrains))
	e.GET("/v1/trains/:id", h.Trains.Get, cached(groupTrains))

	e.GET("/v1/crew", h.Crew.List)
	e.GET("/v1/crew/:id", h.Crew.Get)
	e.GET("/v1/journeys", h.Journeys.List)
	e.GET("/v1/journeys/:id", h.Journeys.Get)
}
