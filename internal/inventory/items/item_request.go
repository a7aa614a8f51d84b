package items

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	MinQuantity int             `json:"min_quantity" binding:"min=0"`
	Unit        string          `json:"unit" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CategoryID  int             `json:"category_id" binding:"required"`
}

// UpdateItemRequest deliberately has no quantity field: stock levels change
// only through transactions and fulfillment, never a plain PATCH.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	MinQuantity *int             `json:"min_quantity"`
	Unit        *string          `json:"unit"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	CategoryID  *int             `json:"category_id"`
}
