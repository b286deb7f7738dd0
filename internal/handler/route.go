package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-ticket-booking/internal/booking"
    "github.com/iliyamo/train-ticket-booking/internal/model"
    "github.com/iliyamo/train-ticket-booking/internal/repository"
)

// RouteHandler serves /v1/routes.
type RouteHandler struct {
    Routes *repository.RouteRepo
}

func NewRouteHandler(r *repository.RouteRepo) *RouteHandler {
    return &RouteHandler{Routes: r}
}

type routeReq struct {
    SourceID      uint64 `json:"source_id"`
    DestinationID uint64 `json:"destination_id"`
    Distance      int    `json:"distance"`
}

// routeListItem flattens the stations into "Source - Destination".
type routeListItem struct {
    ID       uint64 `json:"id"`
    FromTo   string `json:"from_to"`
    Distance int    `json:"distance"`
}

type routeDetail struct {
    ID          uint64       `json:"id"`
    Source      *stationResp `json:"source"`
    Destination *stationResp `json:"destination"`
    Distance    int          `json:"distance"`
}

func toRouteDetail(r model.Route) routeDetail {
    out := routeDetail{ID: r.ID, Distance: r.Distance}
    if r.Source != nil {
        s := toStationResp(*r.Source)
        out.Source = &s
    }
    if r.Destination != nil {
        d := toStationResp(*r.Destination)
        out.Destination = &d
    }
    return out
}

func (r routeReq) model() (model.Route, error) {
    switch {
    case r.SourceID == 0:
        return model.Route{}, &booking.ValidationError{Field: "source_id", Message: "is required"}
    case r.DestinationID == 0:
        return model.Route{}, &booking.ValidationError{Field: "destination_id", Message: "is required"}
    case r.SourceID == r.DestinationID:
        return model.Route{}, &booking.ValidationError{Field: "destination_id", Message: "must differ from source_id"}
    case r.Distance <= 0:
        return model.Route{}, &booking.ValidationError{Field: "distance", Message: "must be positive"}
    }
    return model.Route{SourceID: r.SourceID, DestinationID: r.DestinationID, Distance: r.Distance}, nil
}

func (h *RouteHandler) List(c echo.Context) error {
    items, err := h.Routes.List(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    out := make([]routeListItem, 0, len(items))
    for _, r := range items {
        out = append(out, routeListItem{ID: r.ID, FromTo: r.Label(), Distance: r.Distance})
    }
    return c.JSON(http.StatusOK, out)
}

func (h *RouteHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    r, err := h.Routes.GetByID(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toRouteDetail(*r))
}

func (h *RouteHandler) Create(c echo.Context) error {
    var req routeReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c)
    }
    r, err := req.model()
    if err != nil {
        return writeError(c, err)
    }
    ctx := c.Request().Context()
    if err := h.Routes.Create(ctx, &r); err != nil {
        return writeError(c, err)
    }
    full, err := h.Routes.GetByID(ctx, r.ID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, toRouteDetail(*full))
}

func (h *RouteHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    var req routeReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c)
    }
    r, err := req.model()
    if err != nil {
        return writeError(c, err)
    }
    r.ID = id
    ctx := c.Request().Context()
    if err := h.Routes.Update(ctx, &r); err != nil {
        return writeError(c, err)
    }
    full, err := h.Routes.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toRouteDetail(*full))
}

func (h *RouteHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
