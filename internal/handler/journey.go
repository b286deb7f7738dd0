package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-ticket-booking/internal/booking"
	"github.com/iliyamo/train-ticket-booking/internal/model"
	"github.com/iliyamo/train-ticket-booking/internal/repository"
)

// JourneyHandler serves /v1/journeys.  Reads go through the booking
// service so availability is always computed; writes use the
// repository inside a transaction.
type JourneyHandler struct {
	Service  *booking.Service
	Journeys *repository.JourneyRepo
	Tx       *repository.TxManager
}

func NewJourneyHandler(s *booking.Service, r *repository.JourneyRepo, tx *repository.TxManager) *JourneyHandler {
	return &JourneyHandler{Service: s, Journeys: r, Tx: tx}
}

type journeyReq struct {
	RouteID       uint64   `json:"route_id"`
	TrainID       uint64   `json:"train_id"`
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
	Crew          []uint64 `json:"crew"`
}

type journeyListItem struct {
	ID               uint64 `json:"id"`
	Route            string `json:"route"`
	Train            string `json:"train"`
	TrainType        string `json:"train_type"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	TicketsAvailable int    `json:"tickets_available"`
}

type journeyDetail struct {
	ID               uint64        `json:"id"`
	Route            routeListItem `json:"route"`
	Train            *trainResp    `json:"train"`
	DepartureTime    string        `json:"departure_time"`
	ArrivalTime      string        `json:"arrival_time"`
	Crew             []string      `json:"crew"`
	TicketsAvailable int           `json:"tickets_available"`
}

func toJourneyListItem(j model.Journey) journeyListItem {
	item := journeyListItem{
		ID:               j.ID,
		DepartureTime:    j.DepartureTime.UTC().Format(minuteLayout),
		ArrivalTime:      j.ArrivalTime.UTC().Format(minuteLayout),
		TicketsAvailable: j.TicketsAvailable,
	}
	if j.Route != nil {
		item.Route = j.Route.Label()
	}
	if j.Train != nil {
		item.Train = j.Train.Name
		item.TrainType = j.Train.TrainType
	}
	return item
}

func toJourneyDetail(j model.Journey) journeyDetail {
	d := journeyDetail{
		ID:               j.ID,
		Route:            routeListItem{ID: j.RouteID},
		DepartureTime:    j.DepartureTime.UTC().Format(minuteLayout),
		ArrivalTime:      j.ArrivalTime.UTC().Format(minuteLayout),
		Crew:             make([]string, 0, len(j.Crew)),
		TicketsAvailable: j.TicketsAvailable,
	}
	if j.Route != nil {
		d.Route.FromTo = j.Route.Label()
		d.Route.Distance = j.Route.Distance
	}
	if j.Train != nil {
		t := toTrainResp(*j.Train)
		d.Train = &t
	}
	for _, c := range j.Crew {
		d.Crew = append(d.Crew, c.FullName())
	}
	return d
}

// List answers GET /v1/journeys?source=&destination=&start_date=&end_date=&page=&page_size=.
// source and destination match station names case-insensitively by
// substring.  start_date alone selects one day; with end_date it selects
// the inclusive range.  end_date without start_date is ignored.
func (h *JourneyHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	q := booking.JourneyQuery{
		Source:      c.QueryParam("source"),
		Destination: c.QueryParam("destination"),
		StartDate:   c.QueryParam("start_date"),
		EndDate:     c.QueryParam("end_date"),
		Page:        page,
		PageSize:    size,
	}
	if v := c.QueryParam("crew"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return writeError(c, &booking.ValidationError{Field: "crew", Message: "must be a positive integer"})
		}
		q.CrewID = id
	}
	res, err := h.Service.ListJourneys(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]journeyListItem, 0, len(res.Items))
	for _, j := range res.Items {
		items = append(items, toJourneyListItem(j))
	}
	return c.JSON(http.StatusOK, pageResponse{Count: res.Total, Page: res.Page, PageSize: res.PageSize, Results: items})
}

func (h *JourneyHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	j, err := h.Service.GetJourney(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toJourneyDetail(*j))
}

func (r journeyReq) model() (model.Journey, error) {
	if r.RouteID == 0 {
		return model.Journey{}, &booking.ValidationError{Field: "route_id", Message: "is required"}
	}
	if r.TrainID == 0 {
		return model.Journey{}, &booking.ValidationError{Field: "train_id", Message: "is required"}
	}
	dep, err := parseDateTime("departure_time", r.DepartureTime)
	if err != nil {
		return model.Journey{}, err
	}
	arr, err := parseDateTime("arrival_time", r.ArrivalTime)
	if err != nil {
		return model.Journey{}, err
	}
	if err := booking.ValidateSchedule(dep, arr); err != nil {
		return model.Journey{}, err
	}
	crew := make([]uint64, 0, len(r.Crew))
	seen := make(map[uint64]struct{}, len(r.Crew))
	for _, id := range r.Crew {
		if _, dup := seen[id]; dup || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		crew = append(crew, id)
	}
	return model.Journey{RouteID: r.RouteID, TrainID: r.TrainID, DepartureTime: dep, ArrivalTime: arr, CrewIDs: crew}, nil
}

func (h *JourneyHandler) Create(c echo.Context) error {
	var req journeyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	j, err := req.model()
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return h.Journeys.Create(ctx, &j)
	}); err != nil {
		return writeError(c, err)
	}
	full, err := h.Service.GetJourney(ctx, j.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toJourneyDetail(*full))
}

// Update replaces a journey's schedule, train, route and crew.  Moving a
// journey to a train that cannot hold its sold seats answers 409.
func (h *JourneyHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req journeyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	j, err := req.model()
	if err != nil {
		return writeError(c, err)
	}
	j.ID = id
	ctx := c.Request().Context()
	err = h.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return h.Journeys.Update(ctx, &j)
	})
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "train is too small for tickets already sold on this journey"})
	}
	if err != nil {
		return writeError(c, err)
	}
	full, err := h.Service.GetJourney(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toJourneyDetail(*full))
}

// Delete removes a journey; its tickets go with it.
func (h *JourneyHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Journeys.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
