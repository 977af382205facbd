package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aquarhone/aquabook/internal/config"
	"github.com/aquarhone/aquabook/internal/handler"
	"github.com/aquarhone/aquabook/internal/middleware"
	"github.com/aquarhone/aquabook/internal/model"
)

// Deps bundles everything route registration needs. Redis is optional:
// when it is nil the cache and rate-limit middleware become pass-through.
type Deps struct {
	Cfg          config.Config
	CacheCfg     config.CacheConfig
	RateCfg      config.RateLimitConfig
	Redis        *redis.Client
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Activities   *handler.ActivityHandler
	Reservations *handler.ReservationHandler
}

// Register wires all routes on the provided Echo instance.
//
// Layout:
//
//	GET  /healthz                        liveness probe, no auth
//	POST /api/auth/register              open, rate limited
//	POST /api/auth/login                 open, rate limited
//	GET  /api/auth/me                    any authenticated user
//	     /api/users/*                    ADMIN only
//	GET  /api/activities[/:id]           any authenticated user, cached
//	     /api/activities mutations       ADMIN only
//	     /api/reservations/*             any authenticated user
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.CORS(d.Cfg.CORSOrigin))

	e.GET("/healthz", handler.Health)

	// Auth endpoints sit behind the token bucket so credential
	// stuffing and signup floods are throttled per client IP.
	auth := e.Group("/api/auth")
	auth.Use(middleware.NewTokenBucket(d.RateCfg, d.Redis))
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/me", d.Auth.Me, middleware.JWTAuth(d.Cfg.JWTSecret))

	// User management is reserved for admins.
	users := e.Group("/api/users")
	users.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	users.Use(middleware.RequireRole(model.RoleAdmin))
	users.POST("", d.Users.Create)
	users.GET("", d.Users.List)
	users.GET("/:id", d.Users.Get)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)

	// Catalog reads are open to every authenticated user and served
	// from the Redis response cache; mutations are admin-only and
	// invalidate it.
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	acts := e.Group("/api/activities")
	acts.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	acts.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	acts.GET("", d.Activities.List, cache)
	acts.GET("/:id", d.Activities.Get, cache)
	acts.POST("", d.Activities.Create, middleware.RequireRole(model.RoleAdmin))
	acts.PUT("/:id", d.Activities.Update, middleware.RequireRole(model.RoleAdmin))
	acts.DELETE("/:id", d.Activities.Delete, middleware.RequireRole(model.RoleAdmin))

	// Booking endpoints: every authenticated user may book and manage
	// their own reservations; admins may cancel on behalf of anyone.
	res := e.Group("/api/reservations")
	res.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	res.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	res.POST("", d.Reservations.Create)
	res.GET("", d.Reservations.List)
	res.GET("/:id", d.Reservations.Get)
	res.PUT("/:id/cancel", d.Reservations.Cancel)
}
