package utils

import (
    "errors"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("s3cret", 42, "PASSENGER", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    claims, err := ParseAccessToken("s3cret", tok.Token)
    if err != nil {
        t.Fatalf("ParseAccessToken: %v", err)
    }
    id, _ := claims.UserID()
    if id != 42 || claims.Role != "PASSENGER" {
        t.Fatalf("claims = %+v", claims)
    }
}

func TestParseAccessTokenRejects(t *testing.T) {
    good, _ := NewAccessToken("s3cret", 1, "ADMIN", 15)
    expired, _ := NewAccessToken("s3cret", 1, "ADMIN", -1)
    none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
        RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
    }).SignedString(jwt.UnsafeAllowNoneSignatureType)
    noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
        RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
    }).SignedString([]byte("s3cret"))

    cases := map[string]struct{ secret, raw string }{
        "wrong secret": {"other", good.Token},
        "expired":      {"s3cret", expired.Token},
        "alg none":     {"s3cret", none},
        "no subject":   {"s3cret", noSubject},
        "garbage":      {"s3cret", "not.a.jwt"},
    }
    for name, tc := range cases {
        t.Run(name, func(t *testing.T) {
            if _, err := ParseAccessToken(tc.secret, tc.raw); !errors.Is(err, ErrInvalidToken) {
                t.Fatalf("err = %v, want ErrInvalidToken", err)
            }
        })
    }
}

func TestRefreshTokenHash(t *testing.T) {
    a, err := NewRefreshToken(7)
    if err != nil {
        t.Fatal(err)
    }
    b, _ := NewRefreshToken(7)
    if len(a.Raw) != 96 || a.Raw == b.Raw {
        t.Fatalf("unexpected raw tokens %q %q", a.Raw, b.Raw)
    }
    if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) || len(HashRefreshRaw(a.Raw)) != 64 {
        t.Fatal("hash must be stable 64 hex chars")
    }
}

func TestPassword(t *testing.T) {
    h, err := HashPassword("hunter22", 4)
    if err != nil {
        t.Fatal(err)
    }
    if !VerifyPassword(h, "hunter22") || VerifyPassword(h, "hunter23") {
        t.Fatal("password verification mismatch")
    }
}
