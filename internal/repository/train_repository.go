package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// TrainRepo provides CRUD operations for trains.  Reads join
// train_types so that the type name is always available.
type TrainRepo struct {
	db *sql.DB
}

// NewTrainRepo returns a new TrainRepo bound to the given database.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

const trainSelect = `SELECT t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, tt.name, t.image_url
FROM trains t
JOIN train_types tt ON tt.id = t.train_type_id`

func scanTrain(sc interface{ Scan(...any) error }) (model.Train, error) {
	var (
		t   model.Train
		img sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.Name, &t.CargoNum, &t.PlacesInCargo, &t.TrainTypeID, &t.TrainType, &img); err != nil {
		return t, err
	}
	if img.Valid {
		s := img.String
		t.ImageURL = &s
	}
	return t, nil
}

// List returns all trains ordered by ID.
func (r *TrainRepo) List(ctx context.Context) ([]model.Train, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, trainSelect+" ORDER BY t.id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Train{}
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches one train or ErrNotFound.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (*model.Train, error) {
	t, err := scanTrain(conn(ctx, r.db).QueryRowContext(ctx, trainSelect+" WHERE t.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a train.  An unknown train type yields
// ErrInvalidReference.
func (r *TrainRepo) Create(ctx context.Context, t *model.Train) error {
	const q = "INSERT INTO trains (name, cargo_num, places_in_cargo, train_type_id) VALUES (?, ?, ?, ?)"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID)
	if err != nil {
		return translate(err, ErrDuplicateName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update overwrites a train's attributes.  When the new dimensions
// would leave an already sold ticket outside the train (a cargo above
// CargoNum or a seat above PlacesInCargo) the update is refused with
// ErrConflict.  Update must run inside a transaction: the train row is
// locked before the check, so bookings holding a shared lock on it
// (JourneyRepo.TrainForBooking) commit first and are counted.
func (r *TrainRepo) Update(ctx context.Context, t *model.Train) error {
	db := conn(ctx, r.db)
	var id uint64
	if err := db.QueryRowContext(ctx, "SELECT id FROM trains WHERE id = ? FOR UPDATE", t.ID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	const check = `SELECT COUNT(*)
FROM tickets tk
JOIN journeys j ON j.id = tk.journey_id
WHERE j.train_id = ? AND (tk.cargo > ? OR tk.seat > ?)`
	var stranded int64
	if err := db.QueryRowContext(ctx, check, t.ID, t.CargoNum, t.PlacesInCargo).Scan(&stranded); err != nil {
		return err
	}
	if stranded > 0 {
		return ErrConflict
	}
	const q = "UPDATE trains SET name = ?, cargo_num = ?, places_in_cargo = ?, train_type_id = ? WHERE id = ?"
	if _, err := db.ExecContext(ctx, q, t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID, t.ID); err != nil {
		return translate(err, ErrDuplicateName)
	}
	return nil
}

// SetImageURL records the public URL of an uploaded train image.
func (r *TrainRepo) SetImageURL(ctx context.Context, id uint64, url string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE trains SET image_url = ? WHERE id = ?", url, id)
	if err != nil {
		return err
	}
	return ensureUpdated(ctx, r.db, res, "trains", id)
}

// Delete removes a train along with its journeys and tickets.
func (r *TrainRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "trains", id)
}
