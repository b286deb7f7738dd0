package booking

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input detected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// OutOfRangeError reports a cargo or seat number outside the train.
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s number must be in available range: (%d, %d): got %d", e.Field, e.Min, e.Max, e.Value)
}

// NotFoundError reports a referenced resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports a seat already held by another ticket.
type ConflictError struct {
	JourneyID uint64
	Cargo     int
	Seat      int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %d in cargo %d of journey %d is already booked", e.Seat, e.Cargo, e.JourneyID)
}

// ErrJourneyDeparted is returned when cancelling an order that holds a
// ticket for a journey that has already left.
var ErrJourneyDeparted = errors.New("journey has already departed")
