package handler // handler defines http handlers

import (
    "errors"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-ticket-booking/internal/booking"
    "github.com/iliyamo/train-ticket-booking/internal/repository"
)

const (
    minuteLayout  = "2006-01-02 15:04"
    createdLayout = "2006-01-02 15:04:05"
)

// getUserID extracts the authenticated user ID set by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, &booking.ValidationError{Field: name, Message: "must be a positive integer"}
    }
    return id, nil
}

// pageParams reads ?page= and ?page_size=; invalid values fall back to
// the defaults.
func pageParams(c echo.Context) (int, int) {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    size, _ := strconv.Atoi(c.QueryParam("page_size"))
    return booking.NormalizePage(page, size)
}

// parseDateTime accepts "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM" and
// RFC 3339.  Values without a zone are taken as UTC.
func parseDateTime(field, v string) (time.Time, error) {
    v = strings.TrimSpace(v)
    if v == "" {
        return time.Time{}, &booking.ValidationError{Field: field, Message: "is required"}
    }
    if t, err := time.Parse(time.RFC3339, v); err == nil {
        return t.UTC(), nil
    }
    for _, layout := range []string{minuteLayout, "2006-01-02T15:04", createdLayout} {
        if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
            return t, nil
        }
    }
    return time.Time{}, &booking.ValidationError{Field: field, Message: "must look like 2006-01-02 15:04"}
}

// writeError translates domain and repository errors into JSON
// responses.  Unknown errors are logged and reported as 500.
func writeError(c echo.Context, err error) error {
    var (
        ve  *booking.ValidationError
        oor *booking.OutOfRangeError
        nf  *booking.NotFoundError
        ce  *booking.ConflictError
    )
    switch {
    case errors.As(err, &oor):
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": oor.Error(),
            "field": oor.Field,
            "value": oor.Value,
            "min":   oor.Min,
            "max":   oor.Max,
        })
    case errors.As(err, &ve):
        body := echo.Map{"error": ve.Error()}
        if ve.Field != "" {
            body["field"] = ve.Field
        }
        return c.JSON(http.StatusBadRequest, body)
    case errors.As(err, &nf):
        return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
    case errors.As(err, &ce):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":      ce.Error(),
            "journey_id": ce.JourneyID,
            "cargo":      ce.Cargo,
            "seat":       ce.Seat,
        })
    case errors.Is(err, booking.ErrJourneyDeparted):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "conflicts with existing data"})
    case errors.Is(err, repository.ErrDuplicateName):
        return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
    case errors.Is(err, repository.ErrInvalidReference):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced resource does not exist"})
    }
    slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// badRequest reports a body that could not be decoded.
func badRequest(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}

func unauthorized(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// pageResponse wraps a list with pagination metadata.
type pageResponse struct {
    Count    int64 `json:"count"`
    Page     int   `json:"page"`
    PageSize int   `json:"page_size"`
    Results  any   `json:"results"`
}
