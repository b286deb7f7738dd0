package config

import (
    "testing"
    "time"
)

func TestLoadRateLimitConfigScopes(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "30")
    t.Setenv("RATE_LIMIT_ORDERS_CAPACITY", "5")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    orders := LoadRateLimitConfig("orders", 10)
    if orders.Capacity != 5 {
        t.Errorf("orders capacity = %d, want 5", orders.Capacity)
    }
    if orders.Prefix != "rl:orders" {
        t.Errorf("orders prefix = %q", orders.Prefix)
    }
    if orders.TTL != 10*time.Second {
        t.Errorf("TTL = %s, want clamped to 5 refill intervals", orders.TTL)
    }

    auth := LoadRateLimitConfig("auth", 10)
    if auth.Capacity != 30 {
        t.Errorf("auth capacity = %d, want global 30", auth.Capacity)
    }
}

func TestLoadCacheConfigDefaults(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    c := LoadCacheConfig()
    if !c.Enabled || !c.Methods["GET"] || !c.Methods["HEAD"] || c.Methods["POST"] {
        t.Fatalf("unexpected config %+v", c)
    }
    if c.TTL != time.Minute || c.MaxBodyBytes != 1<<20 {
        t.Fatalf("defaults not applied: %+v", c)
    }
}

func TestEnvBool(t *testing.T) {
    t.Setenv("X_FLAG", "ON")
    if !envBool("X_FLAG", false) {
        t.Fatal("ON should be true")
    }
    t.Setenv("X_FLAG", "garbage")
    if envBool("X_FLAG", false) {
        t.Fatal("garbage should use default")
    }
}

func TestHostOnly(t *testing.T) {
    if got := hostOnly("cache.internal:6380"); got != "cache.internal" {
        t.Fatalf("hostOnly = %q", got)
    }
}
