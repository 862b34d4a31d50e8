package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/bodega-api/internal/domain"
)

// Códigos SQLSTATE relevantes para el motor.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// translateConcurrency mapea fallos de serialización y deadlocks (40001, 40P01)
// a ErrConcurrencyConflict para que el caller reintente la operación completa.
func translateConcurrency(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.ErrConcurrencyConflict
		}
	}
	return err
}
