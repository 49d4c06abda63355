package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/courtsite/venue-slot-booking/internal/handler"
    "github.com/courtsite/venue-slot-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public availability browse endpoint.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler) {
    // Used by load balancers and monitoring to verify the service is up.
    e.GET("/healthz", handler.Health)
    // Players browse free slots before authenticating.
    e.GET("/v1/venues/:id/availability", b.Availability)
}

// RegisterBooking registers the authenticated booking lifecycle
// endpoints. All routes verify a Bearer token signed with jwtSecret;
// the lister-only projection additionally requires the LISTER role.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("PLAYER", "LISTER"))

    auth.POST("/bookings", b.Initiate)
    auth.POST("/bookings/:id/payments/:payee/paid", b.MarkPaid)
    auth.DELETE("/bookings/:id", b.Cancel)
    auth.POST("/check-in", b.CheckIn)
    auth.POST("/bookings/:id/complete", b.Complete)
    auth.POST("/bookings/:id/no-show", b.NoShow)
    auth.GET("/bookings/mine", b.ListMine)

    lister := e.Group("/v1")
    lister.Use(middleware.JWTAuth(jwtSecret))
    lister.Use(middleware.RequireRole("LISTER"))
    lister.GET("/venues/:id/bookings", b.ListForVenue)
    lister.GET("/listers/me/bookings", b.ListForLister)
}
