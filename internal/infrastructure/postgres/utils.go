package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/intellicx-crm/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	invalidTextRepr     = "22P02"
	numericOutOfRange   = "22003"
)

// mapErr traduce errores de PostgreSQL a errores de dominio conservando el contexto de la operación.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%s: %w (%s)", op, domain.ErrDuplicate, constraintField(pgErr))
	case foreignKeyViolation:
		return fmt.Errorf("%s: %w (%s)", op, domain.ErrReferenceNotFound, constraintField(pgErr))
	case checkViolation, invalidTextRepr, numericOutOfRange:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// constraintField extrae un nombre legible de la restricción violada.
func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return pgErr.TableName
}
