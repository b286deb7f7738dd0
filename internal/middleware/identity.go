package middleware

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated subject set by JWTAuth, or
// "anon" for unauthenticated requests.  Used to build per-user keys.
func currentUserID(c echo.Context) string {
    if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
        return s
    }
    return "anon"
}
