package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-service/internal/api/http/handlers"
	"github.com/spec-kit/trip-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Customers *handlers.CustomersHandler
	Trips     *handlers.TripsHandler
	Gate      *auth.Guard
}

// RegisterRoutes wires HTTP routes. Route metadata for the request gate is
// supplied here, per route class: public, customer-allowed, or default.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	public := cfg.Gate.Authorize(auth.RouteMetadata{Public: true})
	defaultOnly := cfg.Gate.Authorize(auth.RouteMetadata{})
	customerAllowed := cfg.Gate.Authorize(auth.RouteMetadata{CustomerAllowed: true})

	app.Get("/health/live", public, cfg.Health.Live)
	app.Get("/health/ready", public, cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", public, cfg.Auth.Login)
	authGroup.Post("/refresh", public, cfg.Auth.Refresh)
	// logout stays public so a session can be terminated even with an
	// already-expired access token
	authGroup.Post("/logout", public, cfg.Auth.Logout)
	authGroup.Post("/users/register", public, cfg.Users.Register)

	users := app.Group("/users", defaultOnly)
	users.Get("/me", cfg.Users.Me)

	customers := app.Group("/customers", defaultOnly)
	customers.Post("/", cfg.Customers.Create)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Patch("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)

	trips := app.Group("/trips", defaultOnly)
	trips.Post("/", cfg.Trips.Create)
	trips.Get("/:id", cfg.Trips.Get)
	trips.Patch("/:id", cfg.Trips.Update)
	trips.Delete("/:id", cfg.Trips.Delete)

	customerTrips := app.Group("/customer/trips", customerAllowed)
	customerTrips.Get("/", cfg.Trips.MyTrips)
	customerTrips.Get("/:id", cfg.Trips.MyTripDetail)
}
