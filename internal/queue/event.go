// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer for them.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/train-ticket-booking/internal/model"
)

// OrderCreatedQueue is the durable queue order events are routed to.
const OrderCreatedQueue = "order.created"

// OrderCreatedEvent is published after an order and all of its tickets
// have been committed.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type OrderCreatedEvent struct {
    EventID   string        `json:"event_id"`
    OrderID   uint64        `json:"order_id"`
    UserID    uint64        `json:"user_id"`
    CreatedAt time.Time     `json:"created_at"`
    Tickets   []TicketEvent `json:"tickets"`
}

// TicketEvent is one booked seat inside an OrderCreatedEvent.
type TicketEvent struct {
    TicketID  uint64 `json:"ticket_id"`
    JourneyID uint64 `json:"journey_id"`
    Cargo     int    `json:"cargo"`
    Seat      int    `json:"seat"`
}

// NewOrderCreatedEvent builds the event for a committed order and gives
// it a fresh random event ID so consumers can de-duplicate redeliveries.
func NewOrderCreatedEvent(o model.Order) OrderCreatedEvent {
    ev := OrderCreatedEvent{
        EventID:   uuid.NewString(),
        OrderID:   o.ID,
        UserID:    o.UserID,
        CreatedAt: o.CreatedAt.UTC(),
        Tickets:   make([]TicketEvent, 0, len(o.Tickets)),
    }
    for _, t := range o.Tickets {
        ev.Tickets = append(ev.Tickets, TicketEvent{TicketID: t.ID, JourneyID: t.JourneyID, Cargo: t.Cargo, Seat: t.Seat})
    }
    return ev
}
