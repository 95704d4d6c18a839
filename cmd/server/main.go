package main

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"

    "github.com/kinarahotels/reservation-server/internal/config"
    "github.com/kinarahotels/reservation-server/internal/database"
    "github.com/kinarahotels/reservation-server/internal/handler"
    "github.com/kinarahotels/reservation-server/internal/logger"
    "github.com/kinarahotels/reservation-server/internal/notify"
    "github.com/kinarahotels/reservation-server/internal/payment"
    "github.com/kinarahotels/reservation-server/internal/queue"
    "github.com/kinarahotels/reservation-server/internal/repository"
    "github.com/kinarahotels/reservation-server/internal/router"
    queuepub "github.com/kinarahotels/reservation-server/internal/service"
    "github.com/kinarahotels/reservation-server/internal/sweeper"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
    if err != nil {
        log.Fatalf("logger: %v", err)
    }
    defer func() { _ = zlog.Sync() }()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        zlog.Fatal("database connection failed", zap.Error(err))
    }
    defer func() { _ = db.Close() }()

    // Nil when Redis is unreachable; cache and rate-limit middleware
    // degrade to pass-through.
    rdb := config.NewRedisClient()

    properties := repository.NewPropertyRepo(db)
    rooms := repository.NewRoomRepo(db)
    reservations := repository.NewReservationRepo(db)
    admins := repository.NewAdminRepo(db)
    tokens := repository.NewTokenRepo(db)

    gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayServerKey, zlog.Named("payment"))

    public := &handler.PublicHandler{Properties: properties, Rooms: rooms}
    bookings := handler.NewBookingHandler(rooms, reservations, gateway, cfg.BookingPrefix)
    webhook := &handler.WebhookHandler{
        Reservations: reservations,
        Properties:   properties,
        Rooms:        rooms,
        ServerKey:    cfg.GatewayServerKey,
        Logger:       zlog.Named("webhook"),
        Publish:      queuepub.PublishBookingPaid,
    }
    auth := handler.NewAuthHandler(cfg, admins, tokens)
    adminRes := &handler.AdminReservationHandler{Reservations: reservations, Rooms: rooms}
    adminProp := &handler.AdminPropertyHandler{Properties: properties}
    adminRoom := &handler.AdminRoomHandler{Properties: properties, Rooms: rooms}
    adminStaff := &handler.AdminStaffHandler{Admins: admins, Tokens: tokens}

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.RequestID())

    router.RegisterRoutes(e)
    router.RegisterPublic(e, public, bookings, rdb)
    router.RegisterWebhook(e, webhook)
    router.RegisterAuth(e, auth, cfg.JWTSecret)
    router.RegisterAdmin(e, adminRes, adminProp, adminRoom, adminStaff, cfg.JWTSecret)

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    go sweeper.Run(ctx, reservations, cfg.SweepPendingTTL, cfg.SweepInterval, zlog.Named("sweeper"))

    if cfg.WhatsAppBaseURL != "" && cfg.WhatsAppAPIKey != "" {
        notifier := notify.NewClient(cfg.WhatsAppBaseURL, cfg.WhatsAppAPIKey, zlog.Named("notify"))
        go func() {
            if err := queue.StartNotificationConsumer(notifier, zlog.Named("consumer")); err != nil {
                zlog.Error("notification consumer stopped", zap.Error(err))
            }
        }()
    } else {
        zlog.Warn("messaging credentials not set, notification consumer disabled")
    }

    addr := ":" + cfg.Port
    zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
    if err := e.Start(addr); err != nil {
        zlog.Fatal("server stopped", zap.Error(err))
    }
}
