package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// validID reports whether id can address a UUID primary key. Malformed ids
// are treated as missing rows rather than driver errors.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
