// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"chorus/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert or update violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const pgUniqueViolation = "23505"

// isUniqueViolation checks if a DB error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// wrapWrite maps unique violations to ErrDuplicate and everything else to an internal error.
func wrapWrite(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return errors.Join(ErrDuplicate, err)
	}
	return models.NewInternalError(err)
}

func readDB(primary, replica *gorm.DB) *gorm.DB {
	if replica != nil {
		return replica
	}
	return primary
}

// idCount is the row shape of a COUNT(*) grouped by post.
type idCount struct {
	PostID uint
	Count  int64
}

func countsToMap(rows []idCount) map[uint]int64 {
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.PostID] = r.Count
	}
	return out
}
