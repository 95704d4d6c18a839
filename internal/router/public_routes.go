package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/kinarahotels/reservation-server/internal/config"
    "github.com/kinarahotels/reservation-server/internal/handler"
    "github.com/kinarahotels/reservation-server/internal/middleware"
)

// RegisterPublic registers the unauthenticated guest surface: browse
// endpoints behind the Redis response cache, and the booking flow
// behind the token-bucket rate limiter so one client cannot hammer
// the availability check or spam bookings.  Both middlewares fall
// back to pass-through when Redis is absent.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, b *handler.BookingHandler, rdb *redis.Client) {
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    browse := e.Group("/v1", cache)
    browse.GET("/properties", p.ListProperties)
    browse.GET("/properties/:id/rooms", p.ListRooms)
    browse.GET("/rooms/:id", p.GetRoom)

    booking := e.Group("/v1", limit)
    booking.GET("/rooms/:id/availability", b.CheckAvailability)
    booking.POST("/bookings", b.CreateBooking)
}

// RegisterWebhook registers the payment gateway notification
// endpoint.  It is authenticated by the signature inside the payload,
// not by JWT, and must never sit behind the rate limiter: dropping a
// gateway retry delays reconciliation.
func RegisterWebhook(e *echo.Echo, w *handler.WebhookHandler) {
    e.POST("/v1/payments/notification", w.HandleNotification)
}
