package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, IsPgDuplicateError(wrap("23505")))
	assert.False(t, IsPgDuplicateError(wrap("23503")))
	assert.True(t, IsPgForeignKeyError(wrap("23503")))
	assert.True(t, IsPgInvalidTextError(wrap("22P02")))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("scan: %w", pgx.ErrNoRows)))

	plain := errors.New("plain")
	assert.False(t, IsPgDuplicateError(plain))
	assert.False(t, IsPgNoRowsError(plain))
	assert.False(t, IsPgInvalidTextError(nil))
}
