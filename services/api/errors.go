package api

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// ValidationError reports missing or malformed caller input. Mapped to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist. Mapped to 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicateScanError reports a second scan of the same asset within the same
// cycle. It carries the existing asset snapshot so callers can surface who
// already checked it. Mapped to 409.
type DuplicateScanError struct {
	Asset Asset
}

func (e *DuplicateScanError) Error() string {
	return fmt.Sprintf("asset %s already scanned in this cycle", e.Asset.AssetID)
}

// isUniqueViolation reports whether err is a storage-level uniqueness
// conflict. The ledger's pre-check is only an early exit; a lost
// check-then-insert race surfaces here instead.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
