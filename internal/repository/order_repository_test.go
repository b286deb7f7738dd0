package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

func bookTickets(ctx context.Context, tx *TxManager, orders *OrderRepo, userID uint64, tickets []model.Ticket) error {
	return tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := orders.Create(ctx, userID)
		if err != nil {
			return err
		}
		for i := range tickets {
			tickets[i].OrderID = o.ID
			if err := orders.AddTicket(ctx, &tickets[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestOrderRollsBackOnDuplicateSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders \(user_id\)`).WithArgs(7).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT created_at FROM orders WHERE id = \?`).WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectExec(`INSERT INTO tickets`).WithArgs(1, 1, 3, 11).WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec(`INSERT INTO tickets`).WithArgs(1, 2, 3, 11).WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(`INSERT INTO tickets`).WithArgs(1, 3, 3, 11).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3-1-3' for key 'uniq_ticket_seat'"})
	mock.ExpectRollback()

	tickets := []model.Ticket{
		{JourneyID: 3, Cargo: 1, Seat: 1},
		{JourneyID: 3, Cargo: 1, Seat: 2},
		{JourneyID: 3, Cargo: 1, Seat: 3},
	}
	err = bookTickets(context.Background(), NewTxManager(db), NewOrderRepo(db), 7, tickets)
	if !errors.Is(err, ErrDuplicateSeat) {
		t.Fatalf("err = %v, want ErrDuplicateSeat", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderCommitsWhenAllSeatsFree(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WithArgs(7).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`SELECT created_at FROM orders`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec(`INSERT INTO tickets`).WithArgs(2, 40, 3, 12).WillReturnResult(sqlmock.NewResult(200, 1))
	mock.ExpectCommit()

	tickets := []model.Ticket{{JourneyID: 3, Cargo: 2, Seat: 40}}
	if err := bookTickets(context.Background(), NewTxManager(db), NewOrderRepo(db), 7, tickets); err != nil {
		t.Fatalf("bookTickets: %v", err)
	}
	if tickets[0].ID != 200 || tickets[0].OrderID != 12 {
		t.Fatalf("ticket = %+v", tickets[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCommitErrorIsReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("commit failed")
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(boom)

	err = NewTxManager(db).WithinTransaction(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want commit error", err)
	}
}

func TestDeleteForUserOwnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewOrderRepo(db)

	mock.ExpectQuery(`SELECT user_id FROM orders WHERE id = \?`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	if err := repo.DeleteForUser(context.Background(), 7, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other owner: err = %v, want ErrForbidden", err)
	}

	mock.ExpectQuery(`SELECT user_id FROM orders WHERE id = \?`).WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	if err := repo.DeleteForUser(context.Background(), 7, 6); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err = %v, want ErrNotFound", err)
	}

	mock.ExpectQuery(`SELECT user_id FROM orders WHERE id = \?`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectExec(`DELETE FROM orders WHERE id = \? AND user_id = \?`).WithArgs(8, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.DeleteForUser(context.Background(), 7, 8); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
