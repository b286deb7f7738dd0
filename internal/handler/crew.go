package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-ticket-booking/internal/booking"
	"github.com/iliyamo/train-ticket-booking/internal/model"
	"github.com/iliyamo/train-ticket-booking/internal/repository"
)

// CrewHandler serves /v1/crew.
type CrewHandler struct {
	Crews   *repository.CrewRepo
	Service *booking.Service
}

func NewCrewHandler(r *repository.CrewRepo, s *booking.Service) *CrewHandler {
	return &CrewHandler{Crews: r, Service: s}
}

type crewReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type crewJourney struct {
	ID            uint64 `json:"id"`
	Route         string `json:"route"`
	DepartureTime string `json:"departure_time"`
}

type crewListItem struct {
	ID       uint64        `json:"id"`
	FullName string        `json:"full_name"`
	Journeys []crewJourney `json:"journeys"`
}

type crewResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *CrewHandler) List(c echo.Context) error {
	items, err := h.Crews.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]crewListItem, 0, len(items))
	for _, m := range items {
		item := crewListItem{ID: m.ID, FullName: m.FullName(), Journeys: make([]crewJourney, 0, len(m.Journeys))}
		for _, j := range m.Journeys {
			cj := crewJourney{ID: j.ID, DepartureTime: j.DepartureTime.UTC().Format(minuteLayout)}
			if j.Route != nil {
				cj.Route = j.Route.Label()
			}
			item.Journeys = append(item.Journeys, cj)
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a crew member with a page of their journeys in the same
// shape as the journey list.
func (h *CrewHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	m, err := h.Crews.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	page, size := pageParams(c)
	res, err := h.Service.ListJourneys(ctx, booking.JourneyQuery{CrewID: id, Page: page, PageSize: size})
	if err != nil {
		return writeError(c, err)
	}
	journeys := make([]journeyListItem, 0, len(res.Items))
	for _, j := range res.Items {
		journeys = append(journeys, toJourneyListItem(j))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         m.ID,
		"first_name": m.FirstName,
		"last_name":  m.LastName,
		"journeys":   pageResponse{Count: res.Total, Page: res.Page, PageSize: res.PageSize, Results: journeys},
	})
}

func (r crewReq) model() (model.Crew, error) {
	first, last := strings.TrimSpace(r.FirstName), strings.TrimSpace(r.LastName)
	if first == "" {
		return model.Crew{}, &booking.ValidationError{Field: "first_name", Message: "is required"}
	}
	if last == "" {
		return model.Crew{}, &booking.ValidationError{Field: "last_name", Message: "is required"}
	}
	return model.Crew{FirstName: first, LastName: last}, nil
}

func (h *CrewHandler) Create(c echo.Context) error {
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	m, err := req.model()
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Crews.Create(c.Request().Context(), &m); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, crewResp{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName})
}

func (h *CrewHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	m, err := req.model()
	if err != nil {
		return writeError(c, err)
	}
	m.ID = id
	if err := h.Crews.Update(c.Request().Context(), &m); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, crewResp{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName})
}

func (h *CrewHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Crews.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
