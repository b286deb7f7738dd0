package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

// JourneyFilter defines filters & pagination for listing journeys.
// Dates are calendar days in UTC; EndDate is only honoured together
// with StartDate.
type JourneyFilter struct {
	Source      string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	CrewID      uint64
	Page        int
	PageSize    int
}

// List returns one page of journeys matching f together with the total
// number of matches.  The sold count for every journey on the page is
// produced by the same statement (see journeyColumns).
func (r *JourneyRepo) List(ctx context.Context, f JourneyFilter) ([]model.Journey, int64, error) {
	where := []string{}
	args := []any{}

	if f.StartDate != nil {
		if f.EndDate != nil {
			where = append(where, "j.departure_time >= ? AND j.departure_time < ?")
			args = append(args, f.StartDate.UTC(), f.EndDate.UTC().AddDate(0, 0, 1))
		} else {
			where = append(where, "DATE(j.departure_time) = ?")
			args = append(args, f.StartDate.UTC().Format("2006-01-02"))
		}
	}
	if f.Source != "" {
		where = append(where, "LOWER(src.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Source)+"%")
	}
	if f.Destination != "" {
		where = append(where, "LOWER(dst.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Destination)+"%")
	}
	if f.CrewID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM journey_crews jc WHERE jc.journey_id = j.id AND jc.crew_id = ?)")
		args = append(args, f.CrewID)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
FROM journeys j
JOIN routes r     ON r.id = j.route_id
JOIN stations src ON src.id = r.source_id
JOIN stations dst ON dst.id = r.destination_id
WHERE ` + cond
	if err := conn(ctx, r.db).QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	dataSQL := "SELECT " + journeyColumns + "\n" + journeyFrom + `
WHERE ` + cond + `
ORDER BY j.departure_time ASC, j.id ASC
LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), size, (page-1)*size)

	rows, err := conn(ctx, r.db).QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Journey, 0, size)
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
