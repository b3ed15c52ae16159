package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// storeError envuelve fallas de conectividad como ErrStoreUnavailable para que
// el coordinador las clasifique; los errores de consulta pasan sin mapear.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Errores de clase 08 (connection exception) y 57 (operator intervention).
		if strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57") {
			return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	// Sin PgError: la conexión nunca llegó al servidor.
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
}
