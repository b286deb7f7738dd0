package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/train-ticket-booking/internal/config"
	"github.com/iliyamo/train-ticket-booking/internal/middleware"
	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// RegisterAdmin registers reference-data and schedule management under
// /v1.  Every route requires a valid JWT with the ADMIN role.  Writes
// purge the cache groups that could hold a stale copy of the resource.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	purge := func(groups ...string) echo.MiddlewareFunc {
		return middleware.InvalidateOnWrite(cacheCfg, rdb, groups...)
	}

	stations := purge(groupStations, groupRoutes)
	g.POST("/stations", h.Stations.Create, stations)
	g.PUT("/stations/:id", h.Stations.Update, stations)
	g.DELETE("/stations/:id", h.Stations.Delete, stations)

	routes := purge(groupRoutes)
	g.POST("/routes", h.Routes.Create, routes)
	g.PUT("/routes/:id", h.Routes.Update, routes)
	g.DELETE("/routes/:id", h.Routes.Delete, routes)

	types := purge(groupTrainTypes, groupTrains)
	g.POST("/train-types", h.TrainTypes.Create, types)
	g.PUT("/train-types/:id", h.TrainTypes.Update, types)
	g.DELETE("/train-types/:id", h.TrainTypes.Delete, types)

	trains := purge(groupTrains)
	g.POST("/trains", h.Trains.Create, trains)
	g.PUT("/trains/:id", h.Trains.Update, trains)
	g.DELETE("/trains/:id", h.Trains.Delete, trains)
	g.POST("/trains/:id/upload-image", h.Trains.UploadImage, trains)

	g.POST("/crew", h.Crew.Create)
	g.PUT("/crew/:id", h.Crew.Update)
	g.DELETE("/crew/:id", h.Crew.Delete)

	g.POST("/journeys", h.Journeys.Create)
	g.PUT("/journeys/:id", h.Journeys.Update)
	g.DELETE("/journeys/:id", h.Journeys.Delete)
}
