package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newViewRepoMock(t *testing.T) (*ViewRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	}
	return NewViewRepo(db), mock, cleanup
}

func TestViewRecord_AuthenticatedFirstView(t *testing.T) {
	repo, mock, cleanup := newViewRepoMock(t)
	defer cleanup()

	uid := uint64(5)
	mock.ExpectQuery(queryViewByUser).WithArgs(uid, uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(queryViewInsert).WithArgs(&uid, uint64(9), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(queryViewIncrement).WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	counted, err := repo.Record(context.Background(), 9, &uid, "203.0.113.7")
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if !counted {
		t.Error("Expected the first view to be counted")
	}
}

func TestViewRecord_AuthenticatedDuplicate(t *testing.T) {
	repo, mock, cleanup := newViewRepoMock(t)
	defer cleanup()

	uid := uint64(5)
	mock.ExpectQuery(queryViewByUser).WithArgs(uid, uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	counted, err := repo.Record(context.Background(), 9, &uid, "203.0.113.7")
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if counted {
		t.Error("A repeat view by the same user must not be counted")
	}
}

func TestViewRecord_AnonymousWithinWindow(t *testing.T) {
	repo, mock, cleanup := newViewRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(queryViewByIP).WithArgs(uint64(9), "203.0.113.7", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	counted, err := repo.Record(context.Background(), 9, nil, "203.0.113.7")
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if counted {
		t.Error("An anonymous view inside the dedup window must not be counted")
	}
}

func TestViewRecord_AnonymousNewView(t *testing.T) {
	repo, mock, cleanup := newViewRepoMock(t)
	defer cleanup()

	ip := "203.0.113.7"
	mock.ExpectQuery(queryViewByIP).WithArgs(uint64(9), ip, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(queryViewInsert).WithArgs(nil, uint64(9), &ip).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(queryViewIncrement).WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	counted, err := repo.Record(context.Background(), 9, nil, ip)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if !counted {
		t.Error("Expected a fresh anonymous view to be counted")
	}
}
