package model

import "time"

// Order groups the tickets a user booked in a single request.  An order
// owns its tickets: deleting the order deletes them.  CreatedAt is set by
// the database when the row is inserted.
type Order struct {
    ID        uint64    // orders.id
    UserID    uint64    // orders.user_id
    CreatedAt time.Time // orders.created_at
    Tickets   []Ticket
}

// Ticket reserves one seat in one car of a journey.  The triple
// (JourneyID, Cargo, Seat) is unique across all tickets; the database
// enforces it with the uniq_ticket_seat key.  Tickets are never updated.
//
// Fields:
//  ID            – primary key identifier.
//  Cargo         – 1-based car number.
//  Seat          – 1-based seat number inside the car.
//  JourneyID     – journey the seat belongs to.
//  OrderID       – owning order.
//  DepartureTime – joined journeys.departure_time.
//  RouteLabel    – joined "Source - Destination" of the journey route.
type Ticket struct {
    ID            uint64    // tickets.id
    Cargo         int       // tickets.cargo
    Seat          int       // tickets.seat
    JourneyID     uint64    // tickets.journey_id
    OrderID       uint64    // tickets.order_id
    DepartureTime time.Time // journeys.departure_time
    RouteLabel    string
}
