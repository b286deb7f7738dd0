package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// JourneyRepo provides CRUD operations for journeys and the aggregate
// queries used for availability.  Sold counts always come from the
// tickets table; nothing about availability is stored on the journey
// row itself.
type JourneyRepo struct {
	db *sql.DB
}

// NewJourneyRepo returns a new JourneyRepo bound to the given database.
func NewJourneyRepo(db *sql.DB) *JourneyRepo { return &JourneyRepo{db: db} }

// journeyColumns is shared by GetWithTrain and List so both scan the
// same shape through scanJourney.  The sold count is a correlated count
// per selected journey, served by the (journey_id, cargo, seat) key.
const journeyColumns = `j.id, j.route_id, j.train_id, j.departure_time, j.arrival_time,
       r.distance, src.id, src.name, dst.id, dst.name,
       t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, tt.name, t.image_url,
       (SELECT COUNT(*) FROM tickets tk WHERE tk.journey_id = j.id) AS sold`

const journeyFrom = `FROM journeys j
JOIN routes r       ON r.id = j.route_id
JOIN stations src   ON src.id = r.source_id
JOIN stations dst   ON dst.id = r.destination_id
JOIN trains t       ON t.id = j.train_id
JOIN train_types tt ON tt.id = t.train_type_id`

func scanJourney(sc interface{ Scan(...any) error }) (model.Journey, error) {
	var (
		j        model.Journey
		rt       model.Route
		src, dst model.Station
		tr       model.Train
		img      sql.NullString
	)
	err := sc.Scan(&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime,
		&rt.Distance, &src.ID, &src.Name, &dst.ID, &dst.Name,
		&tr.Name, &tr.CargoNum, &tr.PlacesInCargo, &tr.TrainTypeID, &tr.TrainType, &img,
		&j.Sold)
	if err != nil {
		return j, err
	}
	rt.ID = j.RouteID
	rt.SourceID, rt.DestinationID = src.ID, dst.ID
	rt.Source, rt.Destination = &src, &dst
	tr.ID = j.TrainID
	if img.Valid {
		s := img.String
		tr.ImageURL = &s
	}
	j.Route = &rt
	j.Train = &tr
	return j, nil
}

// GetWithTrain loads a journey with its route, train, crew and the
// number of tickets sold.  ErrNotFound is returned when the journey
// does not exist.
func (r *JourneyRepo) GetWithTrain(ctx context.Context, id uint64) (*model.Journey, error) {
	q := "SELECT " + journeyColumns + "\n" + journeyFrom + "\nWHERE j.id = ?"
	j, err := scanJourney(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	crew, err := r.crewFor(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	j.Crew = crew
	for _, c := range crew {
		j.CrewIDs = append(j.CrewIDs, c.ID)
	}
	return &j, nil
}

func (r *JourneyRepo) crewFor(ctx context.Context, journeyID uint64) ([]model.Crew, error) {
	const q = `SELECT c.id, c.first_name, c.last_name
FROM journey_crews jc
JOIN crews c ON c.id = jc.crew_id
WHERE jc.journey_id = ?
ORDER BY c.id ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, journeyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Crew{}
	for rows.Next() {
		var c model.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a journey and its crew assignments.  It must run
// inside a transaction (see TxManager) so that a failing crew insert
// does not leave a journey without crew behind.
func (r *JourneyRepo) Create(ctx context.Context, j *model.Journey) error {
	const q = "INSERT INTO journeys (route_id, train_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, j.RouteID, j.TrainID, j.DepartureTime.UTC(), j.ArrivalTime.UTC())
	if err != nil {
		return translate(err, ErrConflict)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)
	return r.insertCrew(ctx, j.ID, j.CrewIDs)
}

// Update overwrites the journey row and replaces its crew assignments.
// It must run inside a transaction.  The journey row is locked first so
// bookings in flight finish before the stranded-ticket check; the new
// train is share-locked so it cannot shrink until commit.  A train too
// small for a ticket already sold on the journey yields ErrConflict.
func (r *JourneyRepo) Update(ctx context.Context, j *model.Journey) error {
	db := conn(ctx, r.db)
	var id uint64
	if err := db.QueryRowContext(ctx, "SELECT id FROM journeys WHERE id = ? FOR UPDATE", j.ID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	var cargoNum, places int
	err := db.QueryRowContext(ctx, "SELECT cargo_num, places_in_cargo FROM trains WHERE id = ? FOR SHARE", j.TrainID).
		Scan(&cargoNum, &places)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidReference
		}
		return err
	}
	const check = `SELECT COUNT(*) FROM tickets tk
WHERE tk.journey_id = ? AND (tk.cargo > ? OR tk.seat > ?)`
	var stranded int64
	if err := db.QueryRowContext(ctx, check, j.ID, cargoNum, places).Scan(&stranded); err != nil {
		return err
	}
	if stranded > 0 {
		return ErrConflict
	}

	const q = "UPDATE journeys SET route_id = ?, train_id = ?, departure_time = ?, arrival_time = ? WHERE id = ?"
	if _, err := db.ExecContext(ctx, q, j.RouteID, j.TrainID, j.DepartureTime.UTC(), j.ArrivalTime.UTC(), j.ID); err != nil {
		return translate(err, ErrConflict)
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM journey_crews WHERE journey_id = ?", j.ID); err != nil {
		return err
	}
	return r.insertCrew(ctx, j.ID, j.CrewIDs)
}

func (r *JourneyRepo) insertCrew(ctx context.Context, journeyID uint64, crewIDs []uint64) error {
	if len(crewIDs) == 0 {
		return nil
	}
	query := "INSERT INTO journey_crews (journey_id, crew_id) VALUES "
	args := make([]any, 0, len(crewIDs)*2)
	for i, cid := range crewIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, journeyID, cid)
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	return translate(err, ErrConflict)
}

// Delete removes a journey; its tickets and crew assignments cascade.
func (r *JourneyRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "journeys", id)
}

// TrainForBooking returns the dimensions of the journey's current train
// and share-locks the journey and train rows for the rest of the
// transaction in ctx.  ErrNotFound is returned when the journey is gone.
func (r *JourneyRepo) TrainForBooking(ctx context.Context, journeyID uint64) (*model.Train, error) {
	const q = `SELECT t.id, t.cargo_num, t.places_in_cargo
FROM journeys j
JOIN trains t ON t.id = j.train_id
WHERE j.id = ?
FOR SHARE`
	var t model.Train
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, journeyID).Scan(&t.ID, &t.CargoNum, &t.PlacesInCargo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// HasDeparted reports whether any journey ticketed in the order has a
// departure time at or before now.
func (r *JourneyRepo) HasDeparted(ctx context.Context, orderID uint64, now time.Time) (bool, error) {
	const q = `SELECT COUNT(*)
FROM tickets tk
JOIN journeys j ON j.id = tk.journey_id
WHERE tk.order_id = ? AND j.departure_time <= ?`
	var n int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, orderID, now.UTC()).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
