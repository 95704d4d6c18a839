// Package router defines how HTTP routes are registered for the API.
// Public browse and booking endpoints live in public_routes.go, the
// authenticated console in admin_routes.go.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/kinarahotels/reservation-server/internal/handler"
)

// RegisterRoutes registers routes that carry no authentication and no
// other middleware.  Currently that is only the health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}
