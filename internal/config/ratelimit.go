package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// RateLimitConfig configures one token bucket policy.  Every policy has
// its own key prefix so limits on different route groups never share
// buckets.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the policy named scope.  Variables are looked
// up as RATE_LIMIT_<SCOPE>_<NAME> first and RATE_LIMIT_<NAME> second, so
// a global value applies to every scope unless overridden.
func LoadRateLimitConfig(scope string, defCapacity int) RateLimitConfig {
    get := scopedEnv(scope)
    c := RateLimitConfig{
        Enabled:        envBool(get("ENABLED"), true),
        Capacity:       envInt(get("CAPACITY"), defCapacity),
        RefillTokens:   envInt(get("REFILL_TOKENS"), 1),
        RefillInterval: envDur(get("REFILL_INTERVAL"), time.Second),
        TTL:            envDur(get("TTL"), 10*time.Minute),
        KeyStrategy:    envStr(get("KEY_STRATEGY"), "ip_user_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "rl") + ":" + strings.ToLower(scope),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if c.Capacity < 1 {
        c.Capacity = 1
    }
    if c.RefillTokens < 1 {
        c.RefillTokens = 1
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
        c.TTL = minTTL
    }
    return c
}

// scopedEnv returns a resolver that picks the scoped variable name when it
// is set and the global one otherwise.
func scopedEnv(scope string) func(name string) string {
    up := strings.ToUpper(scope)
    return func(name string) string {
        scoped := "RATE_LIMIT_" + up + "_" + name
        if _, ok := os.LookupEnv(scoped); ok {
            return scoped
        }
        return "RATE_LIMIT_" + name
    }
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch strings.ToLower(os.Getenv(k)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
        return dur
    }
    return d
}
