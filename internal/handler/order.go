package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-ticket-booking/internal/booking"
	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// OrderService is the booking behaviour the order endpoints need.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uint64, reqs []booking.TicketRequest) (*model.Order, error)
	CheckTicket(ctx context.Context, r booking.TicketRequest) error
	ListOrders(ctx context.Context, userID uint64, page, pageSize int) ([]model.Order, int64, error)
	GetOrder(ctx context.Context, userID, orderID uint64) (*model.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uint64) error
}

// OrderHandler serves /v1/orders and /v1/tickets/validate for the
// authenticated user.
type OrderHandler struct {
	Orders OrderService
}

func NewOrderHandler(s OrderService) *OrderHandler {
	return &OrderHandler{Orders: s}
}

type createOrderReq struct {
	Tickets []booking.TicketRequest `json:"tickets"`
}

type ticketResp struct {
	ID            uint64 `json:"id"`
	Cargo         int    `json:"cargo"`
	Seat          int    `json:"seat"`
	JourneyID     uint64 `json:"journey_id"`
	Journey       string `json:"journey,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
}

type orderResp struct {
	ID        uint64       `json:"id"`
	CreatedAt string       `json:"created_at"`
	Tickets   []ticketResp `json:"tickets"`
}

func toOrderResp(o model.Order) orderResp {
	out := orderResp{
		ID:        o.ID,
		CreatedAt: o.CreatedAt.UTC().Format(createdLayout),
		Tickets:   make([]ticketResp, 0, len(o.Tickets)),
	}
	for _, t := range o.Tickets {
		tr := ticketResp{ID: t.ID, Cargo: t.Cargo, Seat: t.Seat, JourneyID: t.JourneyID, Journey: t.RouteLabel}
		if !t.DepartureTime.IsZero() {
			tr.DepartureTime = t.DepartureTime.UTC().Format(minuteLayout)
		}
		out.Tickets = append(out.Tickets, tr)
	}
	return out
}

// Create books all requested seats for the caller in one order.
//
// Body: {"tickets":[{"journey_id":1,"cargo":2,"seat":14}, ...]}
func (h *OrderHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	o, err := h.Orders.CreateOrder(c.Request().Context(), uid, req.Tickets)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResp(*o))
}

// List returns the caller's orders, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, size := pageParams(c)
	orders, total, err := h.Orders.ListOrders(c.Request().Context(), uid, page, size)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return c.JSON(http.StatusOK, pageResponse{Count: total, Page: page, PageSize: size, Results: out})
}

func (h *OrderHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	o, err := h.Orders.GetOrder(c.Request().Context(), uid, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResp(*o))
}

// Cancel deletes one of the caller's orders before departure.
func (h *OrderHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Orders.CancelOrder(c.Request().Context(), uid, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ValidateTicket checks one {journey_id, cargo, seat} against the
// journey's train without booking it.
func (h *OrderHandler) ValidateTicket(c echo.Context) error {
	var req booking.TicketRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := h.Orders.CheckTicket(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true})
}
