package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// OrderRepo persists orders and their tickets.  Ticket inserts are
// issued one row at a time so that a violation of uniq_ticket_seat can
// be attributed to the exact (journey, cargo, seat) triple.  Create and
// AddTicket are expected to run inside a TxManager transaction.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts an empty order for the user and reads back the
// created_at value assigned by the database.
func (r *OrderRepo) Create(ctx context.Context, userID uint64) (*model.Order, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, "INSERT INTO orders (user_id) VALUES (?)", userID)
	if err != nil {
		return nil, translate(err, ErrConflict)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o := &model.Order{ID: uint64(id), UserID: userID, Tickets: []model.Ticket{}}
	if err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT created_at FROM orders WHERE id = ?", o.ID).Scan(&o.CreatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

// AddTicket inserts one ticket row.  A duplicate (journey_id, cargo,
// seat) yields ErrDuplicateSeat; an unknown journey or order yields
// ErrInvalidReference.
func (r *OrderRepo) AddTicket(ctx context.Context, t *model.Ticket) error {
	const q = "INSERT INTO tickets (cargo, seat, journey_id, order_id) VALUES (?, ?, ?, ?)"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, t.Cargo, t.Seat, t.JourneyID, t.OrderID)
	if err != nil {
		return translate(err, ErrDuplicateSeat)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// ListByUser returns a page of the user's orders, newest first, with
// their tickets and the total number of orders the user has.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Order, int64, error) {
	var total int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, user_id, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		o.Tickets = []model.Ticket{}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachTickets(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByIDForUser returns one order owned by userID.  Orders belonging
// to other users are reported as ErrNotFound.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, userID, orderID uint64) (*model.Order, error) {
	var o model.Order
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT id, user_id, created_at FROM orders WHERE id = ? AND user_id = ?", orderID, userID).
		Scan(&o.ID, &o.UserID, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Tickets = []model.Ticket{}
	orders := []model.Order{o}
	if err := r.attachTickets(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// DeleteForUser deletes an order owned by userID; its tickets are
// removed by the cascading foreign key.  It returns ErrNotFound when
// the order does not exist and ErrForbidden when another user owns it.
func (r *OrderRepo) DeleteForUser(ctx context.Context, userID, orderID uint64) error {
	var owner uint64
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT user_id FROM orders WHERE id = ?", orderID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, "DELETE FROM orders WHERE id = ? AND user_id = ?", orderID, userID)
	return err
}

// attachTickets loads tickets for all orders with one IN query and
// fills in the journey departure time and route label.
func (r *OrderRepo) attachTickets(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	idx := make(map[uint64]int, len(orders))
	ids := make([]any, 0, len(orders))
	for i, o := range orders {
		idx[o.ID] = i
		ids = append(ids, o.ID)
	}
	q := `SELECT tk.id, tk.cargo, tk.seat, tk.journey_id, tk.order_id, j.departure_time, src.name, dst.name
FROM tickets tk
JOIN journeys j   ON j.id = tk.journey_id
JOIN routes r     ON r.id = j.route_id
JOIN stations src ON src.id = r.source_id
JOIN stations dst ON dst.id = r.destination_id
WHERE tk.order_id IN (` + placeholders(len(ids)) + `)
ORDER BY tk.id ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t        model.Ticket
			src, dst string
		)
		if err := rows.Scan(&t.ID, &t.Cargo, &t.Seat, &t.JourneyID, &t.OrderID, &t.DepartureTime, &src, &dst); err != nil {
			return err
		}
		t.RouteLabel = src + " - " + dst
		if i, ok := idx[t.OrderID]; ok {
			orders[i].Tickets = append(orders[i].Tickets, t)
		}
	}
	return rows.Err()
}
