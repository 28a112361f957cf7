package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB is the single persistence session shared by all repositories.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps per-connection pragmas in effect and
	// serializes writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := migrations.Run(ctx, d.SqlDB)
	return err
}

func (d *DB) Close() error {
	return d.SqlDB.Close()
}

func (d *DB) Categories() domain.CategoryRepository {
	return &categoryRepo{db: d.SqlDB}
}

func (d *DB) Items() domain.ItemRepository {
	return &itemRepo{db: d.SqlDB}
}

// Reset removes every item and category.
func (d *DB) Reset(ctx context.Context) error {
	tx, err := d.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return storeError("delete items", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return storeError("delete categories", err)
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit", err)
	}
	return nil
}
