package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var journeyCols = []string{
	"id", "route_id", "train_id", "departure_time", "arrival_time",
	"distance", "src_id", "src_name", "dst_id", "dst_name",
	"train_name", "cargo_num", "places_in_cargo", "train_type_id", "train_type", "image_url",
	"sold",
}

func TestJourneyListSourceFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	dep := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM journeys j.*WHERE LOWER\(src\.name\) LIKE \?`).
		WithArgs("%kyi%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`\(SELECT COUNT\(\*\) FROM tickets tk WHERE tk\.journey_id = j\.id\) AS sold.*WHERE LOWER\(src\.name\) LIKE \?.*LIMIT \? OFFSET \?`).
		WithArgs("%kyi%", 10, 0).
		WillReturnRows(sqlmock.NewRows(journeyCols).AddRow(
			3, 1, 2, dep, dep.Add(5*time.Hour),
			540, 1, "Kyiv", 2, "Lviv",
			"Intercity 743", 5, 40, 1, "Intercity", nil,
			12,
		))

	repo := NewJourneyRepo(db)
	got, total, err := repo.List(context.Background(), JourneyFilter{Source: "Kyi", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", total, len(got))
	}
	j := got[0]
	if j.Sold != 12 {
		t.Errorf("Sold = %d, want 12", j.Sold)
	}
	if j.Route.Label() != "Kyiv - Lviv" {
		t.Errorf("route label = %q", j.Route.Label())
	}
	if j.Train.Capacity() != 200 || j.Train.TrainType != "Intercity" {
		t.Errorf("train = %+v", j.Train)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJourneyListDateFilters(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	t.Run("start only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock: %v", err)
		}
		defer db.Close()
		mock.ExpectQuery(`WHERE DATE\(j\.departure_time\) = \?`).
			WithArgs("2024-05-01").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`WHERE DATE\(j\.departure_time\) = \?`).
			WithArgs("2024-05-01", 10, 0).
			WillReturnRows(sqlmock.NewRows(journeyCols))

		got, total, err := NewJourneyRepo(db).List(context.Background(), JourneyFilter{StartDate: &start})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 0 || len(got) != 0 {
			t.Fatalf("expected empty page, got %d/%d", total, len(got))
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("inclusive range", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock: %v", err)
		}
		defer db.Close()
		upper := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`j\.departure_time >= \? AND j\.departure_time < \?`).
			WithArgs(start, upper).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`j\.departure_time >= \? AND j\.departure_time < \?`).
			WithArgs(start, upper, 10, 0).
			WillReturnRows(sqlmock.NewRows(journeyCols))

		if _, _, err := NewJourneyRepo(db).List(context.Background(), JourneyFilter{StartDate: &start, EndDate: &end}); err != nil {
			t.Fatalf("List: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("end without start ignored", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock: %v", err)
		}
		defer db.Close()
		mock.ExpectQuery(`WHERE 1=1`).
			WithArgs().
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`WHERE 1=1`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(journeyCols))

		if _, _, err := NewJourneyRepo(db).List(context.Background(), JourneyFilter{EndDate: &end}); err != nil {
			t.Fatalf("List: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatal(err)
		}
	})
}
