package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict means a compare-and-swap write lost to a
	// concurrent transition. Safe to retry from a fresh read.
	ErrVersionConflict = errors.New("version conflict")
)

// IsUniqueViolation reports whether err is a uniqueness-constraint failure,
// across the postgres and sqlite drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// modernc sqlite reports "UNIQUE constraint failed: ..."
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
