package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/iliyamo/train-ticket-booking/internal/metrics"
	"github.com/iliyamo/train-ticket-booking/internal/model"
	"github.com/iliyamo/train-ticket-booking/internal/queue"
	"github.com/iliyamo/train-ticket-booking/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	dateLayout      = "2006-01-02"
)

// Transactor runs fn inside one storage transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// JourneyStore is the read side of journeys used for booking and
// availability.
type JourneyStore interface {
	GetWithTrain(ctx context.Context, id uint64) (*model.Journey, error)
	// TrainForBooking returns the journey's current train and holds a
	// shared lock on the journey and train rows until the transaction in
	// ctx ends.
	TrainForBooking(ctx context.Context, journeyID uint64) (*model.Train, error)
	List(ctx context.Context, f repository.JourneyFilter) ([]model.Journey, int64, error)
	HasDeparted(ctx context.Context, orderID uint64, now time.Time) (bool, error)
}

// OrderStore persists orders and tickets.  Create and AddTicket are
// called with the transaction context handed out by Transactor.
type OrderStore interface {
	Create(ctx context.Context, userID uint64) (*model.Order, error)
	AddTicket(ctx context.Context, t *model.Ticket) error
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Order, int64, error)
	GetByIDForUser(ctx context.Context, userID, orderID uint64) (*model.Order, error)
	DeleteForUser(ctx context.Context, userID, orderID uint64) error
}

// Publisher delivers order events after commit.
type Publisher interface {
	Publish(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// TicketRequest is one seat asked for in an order.
type TicketRequest struct {
	JourneyID uint64 `json:"journey_id"`
	Cargo     int    `json:"cargo"`
	Seat      int    `json:"seat"`
}

// JourneyQuery holds the raw journey list filters as received from a
// client.  Dates use the YYYY-MM-DD layout.
type JourneyQuery struct {
	Source      string
	Destination string
	StartDate   string
	EndDate     string
	CrewID      uint64
	Page        int
	PageSize    int
}

// JourneyPage is one page of journeys with availability filled in.
type JourneyPage struct {
	Items    []model.Journey
	Total    int64
	Page     int
	PageSize int
}

// Service implements order placement and availability queries.
type Service struct {
	tx       Transactor
	journeys JourneyStore
	orders   OrderStore
	pub      Publisher
	log      *slog.Logger
	now      func() time.Time
}

// NewService wires a Service.  pub may be nil, in which case no events
// are published.  A nil logger falls back to slog.Default().
func NewService(tx Transactor, journeys JourneyStore, orders OrderStore, pub Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tx: tx, journeys: journeys, orders: orders, pub: pub, log: logger, now: time.Now}
}

type seatKey struct {
	journeyID   uint64
	cargo, seat int
}

// CreateOrder books every requested seat for userID in a single
// transaction.  Either all tickets are committed or none are.  Input
// problems are reported before anything is written; a seat that is
// already taken yields *ConflictError naming the exact triple.
func (s *Service) CreateOrder(ctx context.Context, userID uint64, reqs []TicketRequest) (*model.Order, error) {
	start := time.Now()
	outcome := "error"
	defer func() { metrics.OrderDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds()) }()

	if userID == 0 {
		return nil, &ValidationError{Field: "user_id", Message: "is required"}
	}
	if len(reqs) == 0 {
		return nil, &ValidationError{Field: "tickets", Message: "at least one ticket is required"}
	}
	seen := make(map[seatKey]struct{}, len(reqs))
	for i, r := range reqs {
		if r.JourneyID == 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("tickets[%d].journey_id", i), Message: "is required"}
		}
		k := seatKey{r.JourneyID, r.Cargo, r.Seat}
		if _, dup := seen[k]; dup {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("tickets[%d]", i),
				Message: fmt.Sprintf("seat %d in cargo %d of journey %d requested twice", r.Seat, r.Cargo, r.JourneyID),
			}
		}
		seen[k] = struct{}{}
	}

	journeys := make(map[uint64]*model.Journey)
	for _, r := range reqs {
		j, ok := journeys[r.JourneyID]
		if !ok {
			var err error
			j, err = s.journey(ctx, r.JourneyID)
			if err != nil {
				return nil, err
			}
			journeys[r.JourneyID] = j
		}
		if err := ValidateTicket(r.Cargo, r.Seat, *j.Train); err != nil {
			return nil, err
		}
	}

	var order *model.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Dimensions are checked again under lock so a concurrent train
		// or journey update cannot strand the new tickets.
		if err := s.lockTrains(ctx, reqs); err != nil {
			return err
		}
		o, err := s.orders.Create(ctx, userID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, r := range reqs {
			t := model.Ticket{Cargo: r.Cargo, Seat: r.Seat, JourneyID: r.JourneyID, OrderID: o.ID}
			if err := s.orders.AddTicket(ctx, &t); err != nil {
				switch {
				case errors.Is(err, repository.ErrDuplicateSeat):
					return &ConflictError{JourneyID: r.JourneyID, Cargo: r.Cargo, Seat: r.Seat}
				case errors.Is(err, repository.ErrInvalidReference):
					return &NotFoundError{Resource: "journey", ID: r.JourneyID}
				}
				return fmt.Errorf("add ticket: %w", err)
			}
			j := journeys[r.JourneyID]
			t.DepartureTime = j.DepartureTime
			if j.Route != nil {
				t.RouteLabel = j.Route.Label()
			}
			o.Tickets = append(o.Tickets, t)
		}
		order = o
		return nil
	})
	if err != nil {
		var ce *ConflictError
		if errors.As(err, &ce) {
			outcome = "conflict"
			metrics.BookingConflicts.Inc()
			s.log.Info("seat conflict", "user_id", userID, "journey_id", ce.JourneyID, "cargo", ce.Cargo, "seat", ce.Seat)
		}
		return nil, err
	}

	outcome = "created"
	metrics.OrdersCreated.Inc()
	metrics.TicketsBooked.Add(float64(len(order.Tickets)))
	s.log.Info("order created", "order_id", order.ID, "user_id", userID, "tickets", len(order.Tickets))
	s.publish(ctx, *order)
	return order, nil
}

// lockTrains locks the train of every journey in reqs, in ascending
// journey order, and validates each request against it.
func (s *Service) lockTrains(ctx context.Context, reqs []TicketRequest) error {
	ids := make([]uint64, 0, len(reqs))
	seen := make(map[uint64]bool, len(reqs))
	for _, r := range reqs {
		if !seen[r.JourneyID] {
			seen[r.JourneyID] = true
			ids = append(ids, r.JourneyID)
		}
	}
	slices.Sort(ids)

	trains := make(map[uint64]*model.Train, len(ids))
	for _, id := range ids {
		t, err := s.journeys.TrainForBooking(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "journey", ID: id}
			}
			return fmt.Errorf("lock train of journey %d: %w", id, err)
		}
		trains[id] = t
	}
	for _, r := range reqs {
		if err := ValidateTicket(r.Cargo, r.Seat, *trains[r.JourneyID]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, o model.Order) {
	if s.pub == nil {
		return
	}
	ev := queue.NewOrderCreatedEvent(o)
	if err := s.pub.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("publish order.created failed", "order_id", o.ID, "event_id", ev.EventID, "err", err)
	}
}

// journey resolves a journey with its train, translating a missing row
// into *NotFoundError.
func (s *Service) journey(ctx context.Context, id uint64) (*model.Journey, error) {
	j, err := s.journeys.GetWithTrain(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "journey", ID: id}
		}
		return nil, fmt.Errorf("load journey %d: %w", id, err)
	}
	if j.Train == nil {
		return nil, fmt.Errorf("journey %d loaded without train", id)
	}
	return j, nil
}

// CheckTicket validates a single seat request against its journey's
// train without booking it.
func (s *Service) CheckTicket(ctx context.Context, r TicketRequest) error {
	if r.JourneyID == 0 {
		return &ValidationError{Field: "journey_id", Message: "is required"}
	}
	j, err := s.journey(ctx, r.JourneyID)
	if err != nil {
		return err
	}
	return ValidateTicket(r.Cargo, r.Seat, *j.Train)
}

// ListJourneys returns one page of journeys matching q, each with
// TicketsAvailable computed from its train capacity and sold count.
func (s *Service) ListJourneys(ctx context.Context, q JourneyQuery) (JourneyPage, error) {
	f := repository.JourneyFilter{Source: q.Source, Destination: q.Destination, CrewID: q.CrewID}
	var err error
	if f.StartDate, err = parseDate("start_date", q.StartDate); err != nil {
		return JourneyPage{}, err
	}
	if f.StartDate != nil {
		if f.EndDate, err = parseDate("end_date", q.EndDate); err != nil {
			return JourneyPage{}, err
		}
		if f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
			return JourneyPage{}, &ValidationError{Field: "end_date", Message: "must not be before start_date"}
		}
	}
	f.Page, f.PageSize = NormalizePage(q.Page, q.PageSize)

	items, total, err := s.journeys.List(ctx, f)
	if err != nil {
		return JourneyPage{}, fmt.Errorf("list journeys: %w", err)
	}
	for i := range items {
		fillAvailability(&items[i])
	}
	return JourneyPage{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// GetJourney returns one journey with route, train, crew and
// availability.
func (s *Service) GetJourney(ctx context.Context, id uint64) (*model.Journey, error) {
	j, err := s.journey(ctx, id)
	if err != nil {
		return nil, err
	}
	fillAvailability(j)
	return j, nil
}

func fillAvailability(j *model.Journey) {
	if j.Train == nil {
		return
	}
	j.TicketsAvailable = Available(j.Train.Capacity(), j.Sold)
}

// ListOrders returns a page of the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID uint64, page, pageSize int) ([]model.Order, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	orders, total, err := s.orders.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// GetOrder returns one order owned by userID.
func (s *Service) GetOrder(ctx context.Context, userID, orderID uint64) (*model.Order, error) {
	o, err := s.orders.GetByIDForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// CancelOrder deletes an order owned by userID and releases its seats.
// Orders holding a ticket for a journey that has already departed
// cannot be cancelled.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID uint64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetOrder(ctx, userID, orderID); err != nil {
			return err
		}
		departed, err := s.journeys.HasDeparted(ctx, orderID, s.now())
		if err != nil {
			return fmt.Errorf("check departure: %w", err)
		}
		if departed {
			return ErrJourneyDeparted
		}
		if err := s.orders.DeleteForUser(ctx, userID, orderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID}
			}
			return err
		}
		s.log.Info("order cancelled", "order_id", orderID, "user_id", userID)
		return nil
	})
}

// NormalizePage applies the default and maximum page size.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return &t, nil
}
