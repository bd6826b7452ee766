package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds surfaced by the store. Callers match with errors.Is; raw
// postgres error codes never cross the package boundary.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrSizeMismatch        = errors.New("declared size inconsistent with payload")
	ErrTransient           = errors.New("transient store error")
	ErrFatal               = errors.New("fatal store error")
)

// FK constraint names from the realm schema migration. A violation against
// a character FK means the aggregate root is gone (NotFound); a violation
// against the item catalog means the caller passed a dangling item id.
const (
	fkAccountDataCharacter = "fk_account_data_character"
	fkEquipmentCharacter   = "fk_equipment_character"
	fkEquipmentItem        = "fk_equipment_item"
)

// notFound reports an operation that matched no character row.
func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotFound)
}

// errAlreadyEquipped rejects a second starting-equipment grant.
var errAlreadyEquipped = fmt.Errorf("%w: character already has equipment", ErrConstraintViolation)

// kinds, in the order translate checks for pre-classified errors.
var kinds = []error{ErrNotFound, ErrConstraintViolation, ErrInvalidReference, ErrSizeMismatch, ErrTransient, ErrFatal}

// translate maps a backing-store error onto one of the store's error kinds.
// op names the failing operation for the wrapped message.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23503": // foreign_key_violation
			switch pgErr.ConstraintName {
			case fkAccountDataCharacter, fkEquipmentCharacter:
				return fmt.Errorf("%s: %w: character reference", op, ErrNotFound)
			case fkEquipmentItem:
				return fmt.Errorf("%s: %w: item reference", op, ErrInvalidReference)
			}
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, "23"): // unique, check, not-null
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, "08"), // connection_exception
			strings.HasPrefix(pgErr.Code, "53"), // insufficient_resources
			strings.HasPrefix(pgErr.Code, "57"), // operator_intervention
			pgErr.Code == "40001",               // serialization_failure
			pgErr.Code == "40P01":               // deadlock_detected
			return fmt.Errorf("%s: %w: %s", op, ErrTransient, pgErr.Code)
		case strings.HasPrefix(pgErr.Code, "XX"), // internal_error, data_corrupted
			strings.HasPrefix(pgErr.Code, "42"): // schema mismatch
			return fmt.Errorf("%s: %w: %s %s", op, ErrFatal, pgErr.Code, pgErr.Message)
		}
		return fmt.Errorf("%s: %w: %s %s", op, ErrFatal, pgErr.Code, pgErr.Message)
	}

	// Dial failures, closed pools and other driver-level errors are
	// connection trouble, not data trouble.
	return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
}
