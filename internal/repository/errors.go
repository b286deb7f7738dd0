// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and the handlers to distinguish between different
// failure scenarios without inspecting driver errors. For example,
// ErrDuplicateSeat indicates that a ticket insert hit the
// uniq_ticket_seat key, while ErrConflict signals that an update cannot
// proceed because existing tickets depend on the current state.
package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by primary key matches no row.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as shrinking a train
// below a seat that has already been sold. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDuplicateSeat is returned by OrderRepo.AddTicket when the
// (journey_id, cargo, seat) triple is already taken.
var ErrDuplicateSeat = errors.New("seat already booked")

// ErrDuplicateName is returned when a unique name or email column
// rejects an insert or update.
var ErrDuplicateName = errors.New("duplicate name")

// ErrInvalidReference is returned when a foreign key points at a row
// that does not exist (e.g. a route with an unknown station).
var ErrInvalidReference = errors.New("invalid reference")

// MySQL server error numbers used for translation.
const (
    mysqlDuplicateEntry  = 1062
    mysqlNoReferencedRow = 1452
)

func isMySQLError(err error, number uint16) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == number
}

// translate maps driver errors onto the sentinels above.  dup is the
// sentinel used for a duplicate-key violation in the calling table.
func translate(err error, dup error) error {
    switch {
    case err == nil:
        return nil
    case isMySQLError(err, mysqlDuplicateEntry):
        return dup
    case isMySQLError(err, mysqlNoReferencedRow):
        return ErrInvalidReference
    }
    return err
}
