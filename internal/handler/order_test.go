package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-ticket-booking/internal/booking"
	"github.com/iliyamo/train-ticket-booking/internal/model"
)

type fakeOrders struct {
	createErr error
	gotUser   uint64
	gotReqs   []booking.TicketRequest
	cancelErr error
}

func (f *fakeOrders) CreateOrder(_ context.Context, userID uint64, reqs []booking.TicketRequest) (*model.Order, error) {
	f.gotUser, f.gotReqs = userID, reqs
	if f.createErr != nil {
		return nil, f.createErr
	}
	o := &model.Order{ID: 7, UserID: userID, CreatedAt: time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)}
	for i, r := range reqs {
		o.Tickets = append(o.Tickets, model.Ticket{ID: uint64(i + 1), Cargo: r.Cargo, Seat: r.Seat, JourneyID: r.JourneyID, OrderID: 7})
	}
	return o, nil
}

func (f *fakeOrders) CheckTicket(_ context.Context, r booking.TicketRequest) error {
	return booking.ValidateTicket(r.Cargo, r.Seat, model.Train{CargoNum: 5, PlacesInCargo: 40})
}

func (f *fakeOrders) ListOrders(context.Context, uint64, int, int) ([]model.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, _, orderID uint64) (*model.Order, error) {
	return nil, &booking.NotFoundError{Resource: "order", ID: orderID}
}

func (f *fakeOrders) CancelOrder(context.Context, uint64, uint64) error { return f.cancelErr }

func serve(t *testing.T, h echo.HandlerFunc, method, target, body, userID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func TestCreateOrderCreated(t *testing.T) {
	svc := &fakeOrders{}
	h := NewOrderHandler(svc)
	rec, body := serve(t, h.Create, http.MethodPost, "/v1/orders",
		`{"tickets":[{"journey_id":3,"cargo":2,"seat":14}]}`, "42")

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	if svc.gotUser != 42 {
		t.Fatalf("user passed to service = %d, want 42", svc.gotUser)
	}
	if len(svc.gotReqs) != 1 || svc.gotReqs[0] != (booking.TicketRequest{JourneyID: 3, Cargo: 2, Seat: 14}) {
		t.Fatalf("requests = %+v", svc.gotReqs)
	}
	if body["created_at"] != "2026-03-01 09:30:05" {
		t.Fatalf("created_at = %v", body["created_at"])
	}
	tickets, _ := body["tickets"].([]any)
	if len(tickets) != 1 {
		t.Fatalf("tickets = %v", body["tickets"])
	}
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "empty",
			err:    &booking.ValidationError{Field: "tickets", Message: "at least one ticket is required"},
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				if body["field"] != "tickets" {
					t.Fatalf("field = %v", body["field"])
				}
			},
		},
		{
			name:   "conflict",
			err:    &booking.ConflictError{JourneyID: 3, Cargo: 2, Seat: 14},
			status: http.StatusConflict,
			check: func(t *testing.T, body map[string]any) {
				if body["journey_id"] != float64(3) || body["cargo"] != float64(2) || body["seat"] != float64(14) {
					t.Fatalf("conflict body = %v", body)
				}
			},
		},
		{
			name:   "out of range",
			err:    &booking.OutOfRangeError{Field: "cargo", Value: 6, Min: 1, Max: 5},
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				if body["field"] != "cargo" || body["value"] != float64(6) || body["max"] != float64(5) {
					t.Fatalf("out of range body = %v", body)
				}
			},
		},
		{
			name:   "journey missing",
			err:    &booking.NotFoundError{Resource: "journey", ID: 9},
			status: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(&fakeOrders{createErr: tt.err})
			rec, body := serve(t, h.Create, http.MethodPost, "/v1/orders", `{"tickets":[]}`, "1")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if _, ok := body["error"].(string); !ok {
				t.Fatalf("missing error message: %v", body)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestCreateOrderRequiresUser(t *testing.T) {
	h := NewOrderHandler(&fakeOrders{})
	rec, _ := serve(t, h.Create, http.MethodPost, "/v1/orders", `{"tickets":[]}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCancelDepartedJourney(t *testing.T) {
	h := NewOrderHandler(&fakeOrders{cancelErr: booking.ErrJourneyDeparted})
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/orders/5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", "1")
	if err := h.Cancel(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestValidateTicket(t *testing.T) {
	h := NewOrderHandler(&fakeOrders{})
	tests := []struct {
		body   string
		status int
	}{
		{`{"journey_id":1,"cargo":5,"seat":40}`, http.StatusOK},
		{`{"journey_id":1,"cargo":1,"seat":1}`, http.StatusOK},
		{`{"journey_id":1,"cargo":6,"seat":1}`, http.StatusBadRequest},
		{`{"journey_id":1,"cargo":1,"seat":0}`, http.StatusBadRequest},
		{`{"journey_id":1,"cargo":1,"seat":41}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec, _ := serve(t, h.ValidateTicket, http.MethodPost, "/v1/tickets/validate", tt.body, "1")
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.body, rec.Code, tt.status)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2026, 5, 4, 13, 45, 0, 0, time.UTC)
	for _, in := range []string{"2026-05-04 13:45", "2026-05-04T13:45", "2026-05-04T16:45:00+03:00"} {
		got, err := parseDateTime("departure_time", in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v, want %v", in, got, want)
		}
	}
	if _, err := parseDateTime("departure_time", "tomorrow"); err == nil {
		t.Fatal("expected error for unparsable value")
	}
}
