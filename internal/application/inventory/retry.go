package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/bodega-api/internal/domain"
)

// runWithRetry reintenta la operación completa ante ErrConcurrencyConflict,
// hasta maxRetries reintentos. Cada intento parte de un snapshot fresco: un
// plan calculado sobre un snapshot abortado nunca se reutiliza.
func runWithRetry(ctx context.Context, maxRetries int, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= maxRetries {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
}
