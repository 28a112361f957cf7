package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/msomdec/item-flow/internal/domain"
)

// categoryRepo implements domain.CategoryRepository using SQLite.
type categoryRepo struct {
	db *sql.DB
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, storeError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, storeError("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getOne(ctx, "get category", "SELECT id, name FROM categories WHERE id = ?", id)
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.getOne(ctx, "get category by name", "SELECT id, name FROM categories WHERE name = ?", name)
}

func (r *categoryRepo) getOne(ctx context.Context, op, query string, arg string) (*domain.Category, error) {
	c := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(op, err)
	}
	return c, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	id := category.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (id, name) VALUES (?, ?)", id, category.Name,
	); err != nil {
		return translate("insert category", err)
	}
	category.ID = id
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, category *domain.Category) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = ? WHERE id = ?", category.Name, category.ID,
	); err != nil {
		return translate("update category", err)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin tx", err)
	}
	defer tx.Rollback()

	// ON DELETE SET NULL covers this when foreign keys are enforced; the
	// explicit update keeps items detached on connections where they are not.
	if _, err := tx.ExecContext(ctx,
		"UPDATE items SET category_id = NULL WHERE category_id = ?", id,
	); err != nil {
		return storeError("detach items", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return storeError("delete category", err)
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit", err)
	}
	return nil
}
