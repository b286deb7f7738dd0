package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// StationRepo encapsulates all database queries related to stations.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo constructs a StationRepo with the provided DB handle.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// List returns all stations ordered by name.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	const q = "SELECT id, name, latitude, longitude FROM stations ORDER BY name ASC"
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Station{}
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches a station by its ID.  It returns ErrNotFound when no
// row matches.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
	const q = "SELECT id, name, latitude, longitude FROM stations WHERE id = ?"
	var s model.Station
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a station and populates its ID.  A duplicate name
// yields ErrDuplicateName.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
	const q = "INSERT INTO stations (name, latitude, longitude) VALUES (?, ?, ?)"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, s.Name, s.Latitude, s.Longitude)
	if err != nil {
		return translate(err, ErrDuplicateName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update overwrites the name and coordinates of an existing station.
func (r *StationRepo) Update(ctx context.Context, s *model.Station) error {
	const q = "UPDATE stations SET name = ?, latitude = ?, longitude = ? WHERE id = ?"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, s.Name, s.Latitude, s.Longitude, s.ID)
	if err != nil {
		return translate(err, ErrDuplicateName)
	}
	return ensureUpdated(ctx, r.db, res, "stations", s.ID)
}

// Delete removes a station.  Routes starting or ending at the station
// are removed by the ON DELETE CASCADE constraints.
func (r *StationRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "stations", id)
}

// ensureUpdated distinguishes "no such row" from "row unchanged" after
// an UPDATE, since MySQL reports zero affected rows in both cases.
func ensureUpdated(ctx context.Context, db *sql.DB, res sql.Result, table string, id uint64) error {
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return exists(ctx, db, table, id)
}

// exists returns ErrNotFound unless table has a row with the given id.
// table is always a package constant, never user input.
func exists(ctx context.Context, db *sql.DB, table string, id uint64) error {
	var one int
	err := conn(ctx, db).QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// deleteByID deletes one row of table and reports ErrNotFound when
// nothing was removed.
func deleteByID(ctx context.Context, db *sql.DB, table string, id uint64) error {
	res, err := conn(ctx, db).ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
