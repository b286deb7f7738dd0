package config // package config loads application configuration from environment variables

import (
    "log/slog"
    "os"
    "strconv"

    "github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    MigrateOnStart   bool   // apply the embedded schema at startup
    JWTSecret        string // secret used to sign JWTs
    AccessTTLMin     int    // access token time-to-live in minutes
    RefreshTTLDays   int    // refresh token time-to-live in days
    BcryptCost       int    // bcrypt cost for password hashing
    AllowAdminSignup bool   // allow role=ADMIN on /v1/auth/register
    AMQPURL          string // RabbitMQ URL; empty disables order events
    ConsumerEnabled  bool   // run the order.created log consumer in-process
    BookingLogDir    string // directory of booking.log written by the consumer
    GCSBucket        string // bucket for train images; empty disables uploads
}

// Load reads a .env file when one is present, then builds a Config from
// the environment.  Required variables are enforced by must() and missing
// values cause the program to exit.
func Load() Config {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        slog.Warn("could not read .env", "err", err)
    }
    return Config{
        Env:              must("APP_ENV"),
        Port:             must("APP_PORT"),
        DBUser:           must("DB_USER"),
        DBPass:           os.Getenv("DB_PASS"),
        DBHost:           must("DB_HOST"),
        DBPort:           must("DB_PORT"),
        DBName:           must("DB_NAME"),
        MigrateOnStart:   envBool("DB_MIGRATE", true),
        JWTSecret:        must("JWT_SECRET"),
        AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:       mustInt("BCRYPT_COST"),
        AllowAdminSignup: envBool("ALLOW_ADMIN_SIGNUP", false),
        AMQPURL:          amqpURL(),
        ConsumerEnabled:  envBool("BOOKING_CONSUMER_ENABLED", true),
        BookingLogDir:    envStr("BOOKING_LOG_DIR", "logs"),
        GCSBucket:        os.Getenv("GCS_BUCKET"),
    }
}

// amqpURL prefers RABBITMQ_URL and falls back to AMQP_URL.
func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs an error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        slog.Error("missing required env var", "key", key)
        os.Exit(1)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        slog.Error("invalid int env var", "key", key, "value", s)
        os.Exit(1)
    }
    return n
}
