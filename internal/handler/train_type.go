package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/train-ticket-booking/internal/booking"
    "github.com/iliyamo/train-ticket-booking/internal/model"
    "github.com/iliyamo/train-ticket-booking/internal/repository"
)

// TrainTypeHandler serves /v1/train-types.
type TrainTypeHandler struct {
    Types *repository.TrainTypeRepo
}

func NewTrainTypeHandler(r *repository.TrainTypeRepo) *TrainTypeHandler {
    return &TrainTypeHandler{Types: r}
}

type trainTypeReq struct {
    Name string `json:"name"`
}

type trainTypeResp struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
}

func (h *TrainTypeHandler) List(c echo.Context) error {
    items, err := h.Types.List(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    out := make([]trainTypeResp, 0, len(items))
    for _, t := range items {
        out = append(out, trainTypeResp{ID: t.ID, Name: t.Name})
    }
    return c.JSON(http.StatusOK, out)
}

func (h *TrainTypeHandler) bind(c echo.Context) (model.TrainType, error) {
    var req trainTypeReq
    if err := c.Bind(&req); err != nil {
        return model.TrainType{}, &booking.ValidationError{Message: "invalid request body"}
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return model.TrainType{}, &booking.ValidationError{Field: "name", Message: "is required"}
    }
    return model.TrainType{Name: name}, nil
}

func (h *TrainTypeHandler) Create(c echo.Context) error {
    tt, err := h.bind(c)
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Types.Create(c.Request().Context(), &tt); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, trainTypeResp{ID: tt.ID, Name: tt.Name})
}

func (h *TrainTypeHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    tt, err := h.bind(c)
    if err != nil {
        return writeError(c, err)
    }
    tt.ID = id
    if err := h.Types.Update(c.Request().Context(), &tt); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, trainTypeResp{ID: tt.ID, Name: tt.Name})
}

// Delete removes a train type; its trains cascade.
func (h *TrainTypeHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Types.Delete(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
