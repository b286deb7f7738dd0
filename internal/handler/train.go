package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-ticket-booking/internal/booking"
	"github.com/iliyamo/train-ticket-booking/internal/model"
	"github.com/iliyamo/train-ticket-booking/internal/repository"
	"github.com/iliyamo/train-ticket-booking/internal/storage"
)

const maxImageBytes = 5 << 20

// TrainHandler serves /v1/trains.  Images is nil when no bucket is
// configured; uploads then answer 503.
type TrainHandler struct {
	Trains *repository.TrainRepo
	Tx     *repository.TxManager
	Images storage.ImageStore
}

func NewTrainHandler(r *repository.TrainRepo, tx *repository.TxManager, images storage.ImageStore) *TrainHandler {
	return &TrainHandler{Trains: r, Tx: tx, Images: images}
}

type trainReq struct {
	Name          string `json:"name"`
	CargoNum      int    `json:"cargo_num"`
	PlacesInCargo int    `json:"places_in_cargo"`
	TrainTypeID   uint64 `json:"train_type_id"`
}

type trainResp struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	CargoNum      int           `json:"cargo_num"`
	PlacesInCargo int           `json:"places_in_cargo"`
	Capacity      int           `json:"capacity"`
	TrainType     trainTypeResp `json:"train_type"`
	Image         *string       `json:"image"`
}

func toTrainResp(t model.Train) trainResp {
	return trainResp{
		ID:            t.ID,
		Name:          t.Name,
		CargoNum:      t.CargoNum,
		PlacesInCargo: t.PlacesInCargo,
		Capacity:      t.Capacity(),
		TrainType:     trainTypeResp{ID: t.TrainTypeID, Name: t.TrainType},
		Image:         t.ImageURL,
	}
}

func (r trainReq) model() (model.Train, error) {
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		return model.Train{}, &booking.ValidationError{Field: "name", Message: "is required"}
	case r.CargoNum <= 0:
		return model.Train{}, &booking.ValidationError{Field: "cargo_num", Message: "must be positive"}
	case r.PlacesInCargo <= 0:
		return model.Train{}, &booking.ValidationError{Field: "places_in_cargo", Message: "must be positive"}
	case r.TrainTypeID == 0:
		return model.Train{}, &booking.ValidationError{Field: "train_type_id", Message: "is required"}
	}
	return model.Train{Name: name, CargoNum: r.CargoNum, PlacesInCargo: r.PlacesInCargo, TrainTypeID: r.TrainTypeID}, nil
}

func (h *TrainHandler) List(c echo.Context) error {
	items, err := h.Trains.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]trainResp, 0, len(items))
	for _, t := range items {
		out = append(out, toTrainResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TrainHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	t, err := h.Trains.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTrainResp(*t))
}

func (h *TrainHandler) Create(c echo.Context) error {
	var req trainReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	t, err := req.model()
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Trains.Create(ctx, &t); err != nil {
		return writeError(c, err)
	}
	full, err := h.Trains.GetByID(ctx, t.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toTrainResp(*full))
}

// Update changes a train.  Shrinking cargo_num or places_in_cargo below
// a seat that has already been sold answers 409.
func (h *TrainHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req trainReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	t, err := req.model()
	if err != nil {
		return writeError(c, err)
	}
	t.ID = id

	var full *model.Train
	err = h.Tx.WithinTransaction(c.Request().Context(), func(ctx context.Context) error {
		if err := h.Trains.Update(ctx, &t); err != nil {
			return err
		}
		full, err = h.Trains.GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "new dimensions would strand sold tickets"})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTrainResp(*full))
}

// Delete removes a train together with its journeys and tickets.
func (h *TrainHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Trains.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores the multipart "image" file in the bucket and
// records its public URL on the train.
func (h *TrainHandler) UploadImage(c echo.Context) error {
	if h.Images == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image storage not configured"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart field image is required"})
	}
	if fh.Size > maxImageBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image exceeds 5MB"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	t, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c)
	}
	defer f.Close()

	url, err := h.Images.PutTrainImage(ctx, t.Name, fh.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": err.Error()})
		}
		return writeError(c, err)
	}
	if err := h.Trains.SetImageURL(ctx, id, url); err != nil {
		return writeError(c, err)
	}
	t.ImageURL = &url
	return c.JSON(http.StatusOK, toTrainResp(*t))
}
