package model

import "time"

// Journey is a single scheduled run of a train along a route.  The
// number of available seats is never stored: Sold is filled by
// aggregate queries over the tickets table and TicketsAvailable is
// derived from it by the booking package.
//
// Fields:
//  ID               – primary key identifier.
//  RouteID          – route the train runs on.
//  TrainID          – train used for the run.
//  DepartureTime    – scheduled departure (UTC).
//  ArrivalTime      – scheduled arrival (UTC), after DepartureTime.
//  Route            – joined route with stations (optional).
//  Train            – joined train with its type (optional).
//  CrewIDs          – crew member IDs assigned to the journey.
//  Crew             – joined crew members (optional).
//  Sold             – number of tickets referencing the journey.
//  TicketsAvailable – Train.Capacity() - Sold, never negative.
type Journey struct {
    ID               uint64    // journeys.id
    RouteID          uint64    // journeys.route_id
    TrainID          uint64    // journeys.train_id
    DepartureTime    time.Time // journeys.departure_time
    ArrivalTime      time.Time // journeys.arrival_time
    Route            *Route
    Train            *Train
    CrewIDs          []uint64
    Crew             []Crew
    Sold             int
    TicketsAvailable int
}
