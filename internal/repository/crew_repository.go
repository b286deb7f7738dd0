package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// CrewRepo provides CRUD operations for crew members and loads the
// journeys each member is assigned to.
type CrewRepo struct {
	db *sql.DB
}

// NewCrewRepo returns a new CrewRepo bound to the given database.
func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

// List returns all crew members with their journeys.  Journeys are
// fetched for the whole page with a single IN query.
func (r *CrewRepo) List(ctx context.Context) ([]model.Crew, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT id, first_name, last_name FROM crews ORDER BY id ASC")
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
		c.Journeys = []model.Journey{}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	idx := make(map[uint64]int, len(out))
	ids := make([]any, 0, len(out))
	for i, c := range out {
		idx[c.ID] = i
		ids = append(ids, c.ID)
	}
	q := `SELECT jc.crew_id, j.id, j.departure_time, src.name, dst.name
FROM journey_crews jc
JOIN journeys j   ON j.id = jc.journey_id
JOIN routes r     ON r.id = j.route_id
JOIN stations src ON src.id = r.source_id
JOIN stations dst ON dst.id = r.destination_id
WHERE jc.crew_id IN (` + placeholders(len(ids)) + `)
ORDER BY j.departure_time ASC, j.id ASC`
	jrows, err := conn(ctx, r.db).QueryContext(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	defer jrows.Close()
	for jrows.Next() {
		var (
			crewID   uint64
			j        model.Journey
			dep      time.Time
			src, dst string
		)
		if err := jrows.Scan(&crewID, &j.ID, &dep, &src, &dst); err != nil {
			return nil, err
		}
		j.DepartureTime = dep
		j.Route = &model.Route{Source: &model.Station{Name: src}, Destination: &model.Station{Name: dst}}
		if i, ok := idx[crewID]; ok {
			out[i].Journeys = append(out[i].Journeys, j)
		}
	}
	return out, jrows.Err()
}

// GetByID fetches a single crew member without journeys; the detail
// view loads them through JourneyRepo.List with a crew filter.
func (r *CrewRepo) GetByID(ctx context.Context, id uint64) (*model.Crew, error) {
	var c model.Crew
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT id, first_name, last_name FROM crews WHERE id = ?", id).
		Scan(&c.ID, &c.FirstName, &c.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CrewRepo) Create(ctx context.Context, c *model.Crew) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "INSERT INTO crews (first_name, last_name) VALUES (?, ?)", c.FirstName, c.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

func (r *CrewRepo) Update(ctx context.Context, c *model.Crew) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE crews SET first_name = ?, last_name = ? WHERE id = ?", c.FirstName, c.LastName, c.ID)
	if err != nil {
		return err
	}
	return ensureUpdated(ctx, r.db, res, "crews", c.ID)
}

// Delete removes a crew member and their journey assignments.
func (r *CrewRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "crews", id)
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
