package router

import (
    "github.com/labstack/echo/v4"

    "github.com/kinarahotels/reservation-server/internal/handler"
    "github.com/kinarahotels/reservation-server/internal/middleware"
    "github.com/kinarahotels/reservation-server/internal/model"
)

// RegisterAuth registers the staff session endpoints.  Login and
// refresh are open; /v1/admin/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    me := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret))
    me.GET("/me", a.Me)
}

// RegisterAdmin registers the console endpoints under /v1/admin.  All
// routes require a valid access token and the admin or superadmin
// role; staff management additionally requires superadmin.  Property
// scope is not checked here — the handlers and repositories enforce
// it on every query.
func RegisterAdmin(
    e *echo.Echo,
    res *handler.AdminReservationHandler,
    prop *handler.AdminPropertyHandler,
    room *handler.AdminRoomHandler,
    staff *handler.AdminStaffHandler,
    jwtSecret string,
) {
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin, model.RoleSuperadmin),
    )

    g.GET("/reservations", res.List)
    g.POST("/reservations", res.Create)
    g.GET("/reservations/:id", res.Get)
    g.POST("/reservations/:id/check-in", res.CheckIn)
    g.POST("/reservations/:id/check-out", res.CheckOut)
    g.POST("/reservations/:id/cancel", res.Cancel)

    g.GET("/properties", prop.List)
    g.POST("/properties", prop.Create)
    g.GET("/properties/:id", prop.Get)
    g.PUT("/properties/:id", prop.Update)
    g.DELETE("/properties/:id", prop.Delete)
    g.GET("/properties/:id/calendar", res.Calendar)

    g.POST("/rooms", room.Create)
    g.PUT("/rooms/:id", room.Update)
    g.DELETE("/rooms/:id", room.Delete)

    super := g.Group("", middleware.RequireRole(model.RoleSuperadmin))
    super.GET("/staff", staff.List)
    super.POST("/staff", staff.Create)
    super.POST("/staff/:id/activate", staff.Activate)
    super.POST("/staff/:id/deactivate", staff.Deactivate)
}
