package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-ticket-booking/internal/config"
    "github.com/iliyamo/train-ticket-booking/internal/utils"
)

const secret = "test-secret"

func protected(e *echo.Echo, mws ...echo.MiddlewareFunc) {
    e.GET("/p", func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get(CtxUserID), "role": c.Get(CtxRole)})
    }, mws...)
}

func doGet(e *echo.Echo, auth string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, "/p", nil)
    if auth != "" {
        req.Header.Set("Authorization", auth)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    protected(e, JWTAuth(secret))

    tok, err := utils.NewAccessToken(secret, 9, "PASSENGER", 5)
    if err != nil {
        t.Fatal(err)
    }
    cases := []struct {
        name   string
        header string
        want   int
    }{
        {"missing", "", http.StatusUnauthorized},
        {"not bearer", "Basic abc", http.StatusUnauthorized},
        {"bad token", "Bearer nope", http.StatusUnauthorized},
        {"valid", "Bearer " + tok.Token, http.StatusOK},
        {"lower-case scheme", "bearer " + tok.Token, http.StatusOK},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := doGet(e, tc.header)
            if rec.Code != tc.want {
                t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
            }
            if tc.want == http.StatusOK && !strings.Contains(rec.Body.String(), `"user_id":"9"`) {
                t.Fatalf("body = %s", rec.Body.String())
            }
        })
    }
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    protected(e, JWTAuth(secret), RequireRole("ADMIN"))

    passenger, _ := utils.NewAccessToken(secret, 1, "PASSENGER", 5)
    admin, _ := utils.NewAccessToken(secret, 2, "ADMIN", 5)
    if rec := doGet(e, "Bearer "+passenger.Token); rec.Code != http.StatusForbidden {
        t.Fatalf("passenger status = %d, want 403", rec.Code)
    }
    if rec := doGet(e, "Bearer "+admin.Token); rec.Code != http.StatusOK {
        t.Fatalf("admin status = %d, want 200", rec.Code)
    }
}

func TestCacheKey(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
    a := cacheKey(cfg, "stations", "GET", "/v1/stations", "")
    b := cacheKey(cfg, "stations", "GET", "/v1/stations", "page=2")
    c := cacheKey(cfg, "stations", "HEAD", "/v1/stations", "")
    if a == b {
        t.Fatal("query must change the key")
    }
    if a != c {
        t.Fatal("route_query strategy must ignore the method")
    }
    if !strings.HasPrefix(a, "cache:stations:") || len(a) != len("cache:stations:")+40 {
        t.Fatalf("unexpected key %q", a)
    }
    if groupPattern(cfg, "stations") != "cache:stations:*" {
        t.Fatal("pattern must match keys of the group")
    }
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":1}`))
    if err != nil {
        t.Fatal(err)
    }
    status, got, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"id":1}` {
        t.Fatalf("decoded %d %v %q %v", status, got, body, ok)
    }
    if _, _, _, ok := decodePayload([]byte{0, 0, 0}); ok {
        t.Fatal("short payload must not decode")
    }
}

func TestCaptureWriterOverflow(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
    _, _ = cw.Write([]byte("abc"))
    _, _ = cw.Write([]byte("de"))
    if !cw.overflow || cw.buf.Len() != 0 {
        t.Fatalf("overflow=%v buf=%q", cw.overflow, cw.buf.String())
    }
    if rec.Body.String() != "abcde" {
        t.Fatalf("client body = %q", rec.Body.String())
    }
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
    e := echo.New()
    protected(e,
        ResponseCache(config.CacheConfig{Enabled: true}, nil, "stations"),
        InvalidateOnWrite(config.CacheConfig{Enabled: true}, nil, "stations"),
        RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1, RefillInterval: time.Second}, nil),
    )
    if rec := doGet(e, ""); rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
}

func TestRetryAfterSeconds(t *testing.T) {
    for ms, want := range map[int64]int{0: 0, -5: 0, 1: 1, 1000: 1, 1001: 2} {
        if got := retryAfterSeconds(ms); got != want {
            t.Errorf("retryAfterSeconds(%d) = %d, want %d", ms, got, want)
        }
    }
}
