package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-ipv/internal/domain"
)

func TestTranslateError(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03", "57014"} {
		err := translateError(fmt.Errorf("query: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict, code)
	}
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "22P02"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23503"}), domain.ErrConflict)

	plain := errors.New("otro")
	assert.Same(t, plain, translateError(plain))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "ux_sales_transfer_code"})
	assert.True(t, isUniqueViolation(err))
	assert.Equal(t, "ux_sales_transfer_code", constraintName(err))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", pgx5URL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", pgx5URL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://x", pgx5URL("pgx5://x"))
}

func TestDates(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, bogota)
	assert.Equal(t, "2024-05-10", dateOnly(day))
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), asDate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", fromNullable(nullable("x")))
}
