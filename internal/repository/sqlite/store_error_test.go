package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/repository/sqlite"
)

func newMockDB(t *testing.T) (*sqlite.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &sqlite.DB{SqlDB: db}, mock
}

func TestItemRepository_List_DriverFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT i.id, i.name").WillReturnError(errors.New("disk I/O error"))

	_, err := db.Items().List(context.Background(), domain.ItemFilter{Limit: 5})

	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *domain.StoreError, got %T: %v", err, err)
	}
	if storeErr.Op != "list items" {
		t.Fatalf("expected op 'list items', got %q", storeErr.Op)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestItemRepository_Create_DriverFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO items").WillReturnError(errors.New("database is locked"))

	err := db.Items().Create(context.Background(), &domain.Item{Name: "x"})

	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *domain.StoreError, got %T: %v", err, err)
	}
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("generic failure must not map to a client error: %v", err)
	}
}

func TestCategoryRepository_Delete_RollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE items SET category_id = NULL").
		WithArgs("cat-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM categories").
		WithArgs("cat-1").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := db.Categories().Delete(context.Background(), "cat-1")

	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *domain.StoreError, got %T: %v", err, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestItemRepository_Update_ZeroRowsIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE items SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.Items().Update(context.Background(), &domain.Item{ID: "gone", Name: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
