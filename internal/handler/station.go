package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-ticket-booking/internal/booking"
    "github.com/iliyamo/train-ticket-booking/internal/model"
    "github.com/iliyamo/train-ticket-booking/internal/repository"
)

// StationHandler serves /v1/stations.
type StationHandler struct {
    Stations *repository.StationRepo
}

func NewStationHandler(r *repository.StationRepo) *StationHandler {
    return &StationHandler{Stations: r}
}

type stationReq struct {
    Name      string   `json:"name"`
    Latitude  *float64 `json:"latitude"`
    Longitude *float64 `json:"longitude"`
}

type stationResp struct {
    ID        uint64  `json:"id"`
    Name      string  `json:"name"`
    Latitude  float64 `json:"latitude"`
    Longitude float64 `json:"longitude"`
}

func toStationResp(s model.Station) stationResp {
    return stationResp{ID: s.ID, Name: s.Name, Latitude: s.Latitude, Longitude: s.Longitude}
}

func (r stationReq) model() (model.Station, error) {
    name := strings.TrimSpace(r.Name)
    switch {
    case name == "":
        return model.Station{}, &booking.ValidationError{Field: "name", Message: "is required"}
    case r.Latitude == nil || *r.Latitude < -90 || *r.Latitude > 90:
        return model.Station{}, &booking.ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
    case r.Longitude == nil || *r.Longitude < -180 || *r.Longitude > 180:
        return model.Station{}, &booking.ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
    }
    return model.Station{Name: name, Latitude: *r.Latitude, Longitude: *r.Longitude}, nil
}

func (h *StationHandler) List(c echo.Context) error {
    items, err := h.Stations.List(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    out := make([]stationResp, 0, len(items))
    for _, s := range items {
        out = append(out, toStationResp(s))
    }
    return c.JSON(http.StatusOK, out)
}

func (h *StationHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    s, err := h.Stations.GetByID(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toStationResp(*s))
}

func (h *StationHandler) Create(c echo.Context) error {
    var req stationReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c)
    }
    s, err := req.model()
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Stations.Create(c.Request().Context(), &s); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, toStationResp(s))
}

func (h *StationHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    var req stationReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c)
    }
    s, err := req.model()
    if err != nil {
        return writeError(c, err)
    }
    s.ID = id
    if err := h.Stations.Update(c.Request().Context(), &s); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toStationResp(s))
}

// Delete removes a station.  Routes starting or ending there cascade.
func (h *StationHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Stations.Delete(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
