// Package booking holds the seat allocation rules: ticket range
// validation, availability accounting and the order transaction that
// turns a list of seat requests into committed tickets.
package booking

import (
	"time"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// ValidateTicket checks that cargo and seat address an existing seat on
// train.  Cargo is checked first.  Both numbers are 1-based, so zero and
// negative values are out of range as well.
func ValidateTicket(cargo, seat int, train model.Train) error {
	if cargo < 1 || cargo > train.CargoNum {
		return &OutOfRangeError{Field: "cargo", Value: cargo, Min: 1, Max: train.CargoNum}
	}
	if seat < 1 || seat > train.PlacesInCargo {
		return &OutOfRangeError{Field: "seat", Value: seat, Min: 1, Max: train.PlacesInCargo}
	}
	return nil
}

// ValidateSchedule rejects journeys that do not arrive strictly after
// they depart.
func ValidateSchedule(departure, arrival time.Time) error {
	if departure.IsZero() {
		return &ValidationError{Field: "departure_time", Message: "is required"}
	}
	if arrival.IsZero() {
		return &ValidationError{Field: "arrival_time", Message: "is required"}
	}
	if !arrival.After(departure) {
		return &ValidationError{Field: "arrival_time", Message: "must be after departure_time"}
	}
	return nil
}
