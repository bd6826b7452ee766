package persist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"deadline", context.DeadlineExceeded, ErrTransient},
		{"canceled", context.Canceled, ErrTransient},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "ux_characters_name"}, ErrConstraintViolation},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "ck_tutorial_data_len"}, ErrConstraintViolation},
		{"fk to character from account data", &pgconn.PgError{Code: "23503", ConstraintName: "fk_account_data_character"}, ErrNotFound},
		{"fk to character from equipment", &pgconn.PgError{Code: "23503", ConstraintName: "fk_equipment_character"}, ErrNotFound},
		{"fk to item catalog", &pgconn.PgError{Code: "23503", ConstraintName: "fk_equipment_item"}, ErrInvalidReference},
		{"fk unknown", &pgconn.PgError{Code: "23503", ConstraintName: "fk_something_else"}, ErrConstraintViolation},
		{"connection exception", &pgconn.PgError{Code: "08006"}, ErrTransient},
		{"out of memory", &pgconn.PgError{Code: "53200"}, ErrTransient},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ErrTransient},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, ErrTransient},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ErrTransient},
		{"data corrupted", &pgconn.PgError{Code: "XX001"}, ErrFatal},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, ErrFatal},
		{"unknown pg error", &pgconn.PgError{Code: "22003"}, ErrFatal},
		{"dial error", errors.New("dial tcp: connection refused"), ErrTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("op", tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslateKeepsClassifiedErrors(t *testing.T) {
	// An error already classified by the store must keep its kind when it
	// passes through translate again (wrapped tx helpers do this).
	in := fmt.Errorf("inner: %w", ErrSizeMismatch)
	got := translate("outer", in)
	assert.ErrorIs(t, got, ErrSizeMismatch)
	assert.NotErrorIs(t, got, ErrTransient)

	assert.ErrorIs(t, translate("op", errAlreadyEquipped), ErrConstraintViolation)
}

func TestCheckDeclaredSize(t *testing.T) {
	payload := []byte{0x78, 0x9c, 0x01, 0x02}

	assert.NoError(t, checkDeclaredSize(payload, 128, 1<<20))
	assert.NoError(t, checkDeclaredSize(nil, 0, 1<<20))

	assert.ErrorIs(t, checkDeclaredSize(payload, 0, 1<<20), ErrSizeMismatch)
	assert.ErrorIs(t, checkDeclaredSize(payload, -5, 1<<20), ErrSizeMismatch)
	assert.ErrorIs(t, checkDeclaredSize(nil, 16, 1<<20), ErrSizeMismatch)
	assert.ErrorIs(t, checkDeclaredSize(payload, 1<<21, 1<<20), ErrSizeMismatch)
}
