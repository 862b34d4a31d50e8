package dto

import "github.com/shopspring/decimal"

// ProductResponse producto con el nombre de categoría ya resuelto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
}
