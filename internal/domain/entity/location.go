package entity

import "time"

// Location representa una ubicación física de stock: bodega, sucursal o punto de venta.
type Location struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
