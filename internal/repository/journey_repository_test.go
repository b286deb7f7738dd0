package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

func testJourneyUpdate() *model.Journey {
	dep := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return &model.Journey{ID: 3, RouteID: 1, TrainID: 9, DepartureTime: dep, ArrivalTime: dep.Add(4 * time.Hour)}
}

func TestJourneyUpdateRejectsSmallerTrain(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM journeys WHERE id = \? FOR UPDATE`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`SELECT cargo_num, places_in_cargo FROM trains WHERE id = \? FOR SHARE`).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"cargo_num", "places_in_cargo"}).AddRow(1, 10))
	mock.ExpectQuery(`WHERE tk\.journey_id = \? AND \(tk\.cargo > \? OR tk\.seat > \?\)`).WithArgs(3, 1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectRollback()

	repo := NewJourneyRepo(db)
	err = NewTxManager(db).WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.Update(ctx, testJourneyUpdate())
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJourneyUpdateReplacesCrew(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	j := testJourneyUpdate()
	j.CrewIDs = []uint64{5, 6}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM journeys WHERE id = \? FOR UPDATE`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`FROM trains WHERE id = \? FOR SHARE`).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"cargo_num", "places_in_cargo"}).AddRow(5, 40))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets tk`).WithArgs(3, 5, 40).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE journeys SET`).WithArgs(1, 9, j.DepartureTime, j.ArrivalTime, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM journey_crews WHERE journey_id = \?`).WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO journey_crews`).WithArgs(3, 5, 3, 6).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewJourneyRepo(db)
	if err := NewTxManager(db).WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.Update(ctx, j)
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestJourneyUpdateUnknownTrain(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FOR UPDATE`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`FOR SHARE`).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"cargo_num", "places_in_cargo"}))

	err = NewJourneyRepo(db).Update(context.Background(), testJourneyUpdate())
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTrainForBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`JOIN trains t ON t\.id = j\.train_id\s+WHERE j\.id = \?\s+FOR SHARE`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cargo_num", "places_in_cargo"}).AddRow(1, 5, 40))
	mock.ExpectQuery(`FOR SHARE`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cargo_num", "places_in_cargo"}))

	repo := NewJourneyRepo(db)
	tr, err := repo.TrainForBooking(context.Background(), 3)
	if err != nil {
		t.Fatalf("TrainForBooking: %v", err)
	}
	if tr.Capacity() != 200 {
		t.Fatalf("capacity = %d, want 200", tr.Capacity())
	}
	if _, err := repo.TrainForBooking(context.Background(), 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
