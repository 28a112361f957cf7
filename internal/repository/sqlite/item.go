package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/msomdec/item-flow/internal/domain"
)

const itemSelect = `SELECT i.id, i.name, i.category_id, i.image, c.name
	FROM items i LEFT JOIN categories c ON i.category_id = c.id`

// Both LIKE operands use the same escaped pattern.
const itemFilterClause = ` WHERE i.name LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\'`

// itemRepo implements domain.ItemRepository using SQLite.
type itemRepo struct {
	db *sql.DB
}

func (r *itemRepo) List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	query := itemSelect
	var args []any
	if filter.Filter != "" {
		query += itemFilterClause
		pattern := likePattern(filter.Filter)
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY i.name, i.id LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list items", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storeError("scan item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list items", err)
	}
	return items, nil
}

func (r *itemRepo) Count(ctx context.Context, filter string) (int, error) {
	query := "SELECT COUNT(i.id) FROM items i LEFT JOIN categories c ON i.category_id = c.id"
	var args []any
	if filter != "" {
		query += itemFilterClause
		pattern := likePattern(filter)
		args = append(args, pattern, pattern)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storeError("count items", err)
	}
	return count, nil
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, itemSelect+" WHERE i.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("get item", err)
	}
	return item, nil
}

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) error {
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO items (id, name, category_id, image) VALUES (?, ?, ?, ?)",
		id, item.Name, item.CategoryID, item.Image,
	); err != nil {
		return translate("insert item", err)
	}
	item.ID = id
	return nil
}

func (r *itemRepo) Update(ctx context.Context, item *domain.Item) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE items SET name = ?, category_id = ?, image = ? WHERE id = ?",
		item.Name, item.CategoryID, item.Image, item.ID,
	)
	if err != nil {
		return translate("update item", err)
	}
	return requireAffected(result, "update item")
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return storeError("delete item", err)
	}
	return requireAffected(result, "delete item")
}

func (r *itemRepo) ListImages(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT image FROM items WHERE image != ''")
	if err != nil {
		return nil, storeError("list images", err)
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, storeError("scan image", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list images", err)
	}
	return images, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*domain.Item, error) {
	var (
		item         domain.Item
		categoryID   sql.NullString
		categoryName sql.NullString
	)
	if err := s.Scan(&item.ID, &item.Name, &categoryID, &item.Image, &categoryName); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		item.CategoryID = &categoryID.String
	}
	if categoryName.Valid {
		item.CategoryName = &categoryName.String
	}
	return &item, nil
}

func requireAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError(op+": rows affected", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring LIKE pattern matching s literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
