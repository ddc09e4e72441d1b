package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travelstay/marketplace-api/internal/api/handler"
	"github.com/travelstay/marketplace-api/internal/api/middleware"
	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
	"github.com/travelstay/marketplace-api/internal/core/service"
	mongodb "github.com/travelstay/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/travelstay/marketplace-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit recorder is built and started by the caller so its worker
// lifecycle is owned by main, not by the router.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("travelstay"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	ownerRepo := mongodb.NewOwnerRecordRepository(db)
	listingRepo := mongodb.NewListingRepository(db)

	tokenService := service.NewTokenService(jwtSecret, time.Hour)
	userService := service.NewUserService(userRepo, ownerRepo, audit, log)
	listingService := service.NewListingService(listingRepo, audit, log)
	cityService := service.NewCityService(listingRepo, redisdb.NewCityCache(rdb), log)

	gate := middleware.NewGate(tokenService, userService, listingRepo)

	authHandler := handler.NewAuthHandler(tokenService)
	userHandler := handler.NewUserHandler(userService)
	listingHandler := handler.NewListingHandler(listingService)
	cityHandler := handler.NewCityHandler(cityService)

	// --- Route guards: one declaration per protected route ---
	authenticated := gate.Require(middleware.Guard{})
	adminOnly := gate.Require(middleware.Guard{RequiredRole: domain.RoleAdmin})
	ownerOnly := gate.Require(middleware.Guard{RequiredRole: domain.RoleOwner})
	ownedListing := gate.Require(middleware.Guard{RequiredRole: domain.RoleOwner, OwnershipScoped: true})

	// --- Auth & users ---
	e.POST("/jwt", authHandler.IssueToken)
	e.POST("/users", userHandler.Register)
	e.GET("/users", userHandler.List, adminOnly)
	e.GET("/users/admin/:email", userHandler.CheckAdmin, authenticated)
	e.GET("/users/owner/:email", userHandler.CheckOwner, authenticated)
	e.PATCH("/users/admin/:email", userHandler.PromoteAdmin, adminOnly)
	e.PATCH("/users/owner/:email", userHandler.PromoteOwner, adminOnly)

	// --- Listings ---
	e.POST("/listings", listingHandler.Create, ownerOnly)
	e.GET("/listings", listingHandler.ListAll, adminOnly)
	e.GET("/my-listings", listingHandler.ListMine, ownerOnly)
	e.GET("/listings/:id", listingHandler.Get, ownedListing)
	e.PATCH("/listings/:id", listingHandler.Update, ownedListing)
	e.DELETE("/listings/:id", listingHandler.Delete, ownedListing)
	e.PATCH("/listings/:id/status", listingHandler.SetStatus, adminOnly)

	// --- Public aggregate ---
	e.GET("/top-cities", cityHandler.TopCities)

	// --- Health probes & metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
