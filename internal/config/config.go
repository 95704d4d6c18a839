package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses sweep durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing

    LogLevel  string // zap level: debug/info/warn/error
    LogFormat string // zap format: json/console

    BookingPrefix    string        // booking code prefix for gateway bookings
    GatewayBaseURL   string        // payment gateway API base URL
    GatewayServerKey string        // merchant server key (basic auth + signature check)
    WhatsAppBaseURL  string        // messaging API base URL
    WhatsAppAPIKey   string        // messaging API key
    SweepPendingTTL  time.Duration // age after which pending_payment bookings are cancelled
    SweepInterval    time.Duration // how often the sweeper runs
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional knobs
// fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),  // environment (dev/test/prod)
        Port:           must("APP_PORT"), // port to bind the HTTP server
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),

        LogLevel:  getenv("LOG_LEVEL", "info"),
        LogFormat: getenv("LOG_FORMAT", "json"),

        BookingPrefix:    getenv("BOOKING_CODE_PREFIX", "KNA"),
        GatewayBaseURL:   must("PAYMENT_GATEWAY_BASE_URL"),
        GatewayServerKey: must("PAYMENT_GATEWAY_SERVER_KEY"),
        WhatsAppBaseURL:  getenv("WHATSAPP_API_BASE_URL", ""),
        WhatsAppAPIKey:   getenv("WHATSAPP_API_KEY", ""),
        SweepPendingTTL:  parseDur(getenv("SWEEP_PENDING_TTL", "24h")),
        SweepInterval:    parseDur(getenv("SWEEP_INTERVAL", "15m")),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
