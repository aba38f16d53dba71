package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-ipv/internal/domain"
)

// Códigos SQLSTATE usados por el adaptador.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeInvalidText          = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// constraintName nombre del constraint violado, vacío si no aplica.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// translateError traduce fallos de serialización, deadlocks y esperas de bloqueo agotadas
// a domain.ErrConcurrencyConflict, identificadores mal formados a domain.ErrInvalidInput
// y referencias a filas inexistentes a domain.ErrConflict. El resto se devuelve sin cambios.
func translateError(err error) error {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeQueryCanceled:
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
	case codeInvalidText:
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// dateOnly formato de las columnas DATE (shift_date).
func dateOnly(t time.Time) string { return t.Format(time.DateOnly) }

// asDate normaliza un DATE leído de la base a medianoche UTC.
func asDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
