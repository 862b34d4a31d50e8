package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
)

var _ inventory.EmployeeDirectory = (*EmployeeDirectory)(nil)

// EmployeeDirectory capacidad de identidad de empleados sobre la tabla externa
// employees. Solo valida existencia para atribución; el alta de empleados vive
// fuera de este servicio.
type EmployeeDirectory struct {
	q Querier
}

// NewEmployeeDirectory construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeDirectory(q Querier) *EmployeeDirectory {
	return &EmployeeDirectory{q: q}
}

// Exists verifica si el empleado existe.
func (d *EmployeeDirectory) Exists(ctx context.Context, employeeID string) (bool, error) {
	var one int
	err := d.q.QueryRow(ctx, `SELECT 1 FROM employees WHERE employee_id = $1`, employeeID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup employee: %w", err)
	}
	return true, nil
}
