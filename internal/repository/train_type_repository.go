package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// TrainTypeRepo stores the train_types lookup table.
type TrainTypeRepo struct {
	db *sql.DB
}

func NewTrainTypeRepo(db *sql.DB) *TrainTypeRepo { return &TrainTypeRepo{db: db} }

// List returns all train types ordered by name.
func (r *TrainTypeRepo) List(ctx context.Context) ([]model.TrainType, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT id, name FROM train_types ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.TrainType{}
	for rows.Next() {
		var tt model.TrainType
		if err := rows.Scan(&tt.ID, &tt.Name); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

func (r *TrainTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TrainType, error) {
	var tt model.TrainType
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT id, name FROM train_types WHERE id = ?", id).Scan(&tt.ID, &tt.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tt, nil
}

func (r *TrainTypeRepo) Create(ctx context.Context, tt *model.TrainType) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "INSERT INTO train_types (name) VALUES (?)", tt.Name)
	if err != nil {
		return translate(err, ErrDuplicateName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tt.ID = uint64(id)
	return nil
}

func (r *TrainTypeRepo) Update(ctx context.Context, tt *model.TrainType) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE train_types SET name = ? WHERE id = ?", tt.Name, tt.ID)
	if err != nil {
		return translate(err, ErrDuplicateName)
	}
	return ensureUpdated(ctx, r.db, res, "train_types", tt.ID)
}

// Delete removes a train type.  Trains of that type cascade.
func (r *TrainTypeRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "train_types", id)
}
