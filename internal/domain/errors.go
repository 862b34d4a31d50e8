package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInsufficientStock   = errors.New("stock insuficiente en los lotes disponibles")
	ErrInvalidReference    = errors.New("referencia desconocida (producto, ubicación o lote)")
	ErrInvalidState        = errors.New("la mutación violaría un invariante del lote")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar la operación completa")
	ErrDriftDetected       = errors.New("descuadre entre resumen de stock y suma de lotes")
)
