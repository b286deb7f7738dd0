package config

// Redis backs the reference-data response cache and the token bucket
// rate limiter.  When the server cannot be reached at startup the
// constructor returns nil and both features are switched off.

import (
    "context"
    "crypto/tls"
    "log/slog"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables.
// Supported variables are:
//   REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//   REDIS_ADDR – host:port shorthand, used when host/port are not both set
//   REDIS_PASSWORD – optional password
//   REDIS_DB – database number (default 0)
//   REDIS_TLS – enable TLS when "true" or "1"
// The returned client is nil if a connection cannot be established.
func NewRedisClient(ctx context.Context) *redis.Client {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    opts := &redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       envInt("REDIS_DB", 0),
    }
    if envBool("REDIS_TLS", false) {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: hostOnly(addr)}
    }
    client := redis.NewClient(opts)

    pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := client.Ping(pctx).Err(); err != nil {
        slog.Warn("redis unavailable, cache and rate limiting disabled", "addr", addr, "err", err)
        _ = client.Close()
        return nil
    }
    return client
}

func hostOnly(addr string) string {
    for i := len(addr) - 1; i >= 0; i-- {
        if addr[i] == ':' {
            return addr[:i]
        }
    }
    return addr
}
