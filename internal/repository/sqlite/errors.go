package sqlite

import (
	"errors"
	"fmt"
	"strings"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/msomdec/item-flow/internal/domain"
)

// translate maps a driver error onto the domain taxonomy. Constraint
// failures become ErrConflict or ErrInvalidInput; anything else is wrapped
// in a *domain.StoreError.
func translate(op string, err error) error {
	var sqliteErr *driver.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", domain.ErrConflict, op)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s references a missing row", domain.ErrInvalidInput, op)
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%w: %s is missing a required value", domain.ErrInvalidInput, op)
		case sqlite3.SQLITE_CONSTRAINT:
			// Connections without extended result codes only report the
			// primary code.
			if strings.Contains(sqliteErr.Error(), "FOREIGN KEY") {
				return fmt.Errorf("%w: %s references a missing row", domain.ErrInvalidInput, op)
			}
			return fmt.Errorf("%w: %s", domain.ErrConflict, op)
		}
	}
	return storeError(op, err)
}

func storeError(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}
