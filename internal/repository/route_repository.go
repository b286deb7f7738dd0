package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// RouteRepo provides CRUD operations for routes.  Reads join the
// stations table twice so callers always receive the source and
// destination stations.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a new RouteRepo bound to the given database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const routeSelect = `SELECT r.id, r.source_id, r.destination_id, r.distance,
       src.name, src.latitude, src.longitude,
       dst.name, dst.latitude, dst.longitude
FROM routes r
JOIN stations src ON src.id = r.source_id
JOIN stations dst ON dst.id = r.destination_id`

func scanRoute(sc interface{ Scan(...any) error }) (model.Route, error) {
	var (
		rt       model.Route
		src, dst model.Station
	)
	err := sc.Scan(&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.Distance,
		&src.Name, &src.Latitude, &src.Longitude,
		&dst.Name, &dst.Latitude, &dst.Longitude)
	if err != nil {
		return rt, err
	}
	src.ID = rt.SourceID
	dst.ID = rt.DestinationID
	rt.Source = &src
	rt.Destination = &dst
	return rt, nil
}

// List returns every route ordered by ID.
func (r *RouteRepo) List(ctx context.Context) ([]model.Route, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, routeSelect+" ORDER BY r.id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// GetByID fetches a route with both stations.  ErrNotFound is returned
// when the route does not exist.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	rt, err := scanRoute(conn(ctx, r.db).QueryRowContext(ctx, routeSelect+" WHERE r.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// Create inserts a route.  Unknown station IDs yield
// ErrInvalidReference.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	const q = "INSERT INTO routes (source_id, destination_id, distance) VALUES (?, ?, ?)"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, rt.SourceID, rt.DestinationID, rt.Distance)
	if err != nil {
		return translate(err, ErrConflict)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// Update replaces the stations and distance of a route.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	const q = "UPDATE routes SET source_id = ?, destination_id = ?, distance = ? WHERE id = ?"
	res, err := conn(ctx, r.db).ExecContext(ctx, q, rt.SourceID, rt.DestinationID, rt.Distance, rt.ID)
	if err != nil {
		return translate(err, ErrConflict)
	}
	return ensureUpdated(ctx, r.db, res, "routes", rt.ID)
}

// Delete removes a route together with its journeys and their tickets.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "routes", id)
}
