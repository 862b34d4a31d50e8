// Package allocation implementa el motor de asignación FIFO: dado un snapshot
// de lotes disponibles, decide qué lotes cubren una cantidad solicitada.
// Es cómputo puro sobre el snapshot; no muta nada. La misma construcción de
// plan sirve para traslados y para la ruta de consumo por venta.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// Line es una entrada del plan: cuánta cantidad tomar de qué lote.
type Line struct {
	BatchID  string
	Quantity decimal.Decimal
}

// Plan es el conjunto ordenado de (lote, cantidad) que cubre exactamente la
// cantidad solicitada. Determinista y reproducible para un mismo snapshot:
// el orden (vencimiento, entrada, id) no deja empates sin resolver, lo que
// permite auditar qué lote aportó cada unidad.
type Plan struct {
	ProductID  string
	LocationID string
	Requested  decimal.Decimal
	Lines      []Line
}

// Total devuelve la suma de cantidades del plan. En un plan válido es igual a Requested.
func (p *Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// Build recorre los lotes en orden FIFO y arma el plan: de cada lote toma
// min(restante, disponible) hasta cubrir la cantidad. Todo-o-nada: si el
// snapshot se agota con restante > 0, retorna ErrInsufficientStock y ningún plan.
// El snapshot se reordena defensivamente con el orden canónico de Batch.Before
// para que el plan no dependa del orden de llegada.
func Build(productID, locationID string, batches []*entity.Batch, requested decimal.Decimal) (*Plan, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	ordered := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.HasStock() {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	plan := &Plan{ProductID: productID, LocationID: locationID, Requested: requested}
	remaining := requested
	for _, b := range ordered {
		take := decimal.Min(remaining, b.QuantityAvailable)
		plan.Lines = append(plan.Lines, Line{BatchID: b.ID, Quantity: take})
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			return plan, nil
		}
	}
	return nil, domain.ErrInsufficientStock
}
