package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemCategory struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Item struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	MinQuantity int             `json:"min_quantity" db:"min_quantity"`
	Unit        string          `json:"unit" db:"unit"`
	UnitCost    decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	CategoryID  int             `json:"category_id" db:"category_id"`
	Category    *ItemCategory   `json:"category,omitempty" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// FlatItem is the joined row shape used by list queries.
type FlatItem struct {
	ID           int             `db:"id"`
	Name         string          `db:"name"`
	Quantity     int             `db:"quantity"`
	MinQuantity  int             `db:"min_quantity"`
	Unit         string          `db:"unit"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	CategoryID   int             `db:"category_id"`
	CategoryName string          `db:"category_name"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (f *FlatItem) ToItem() Item {
	return Item{
		ID:          f.ID,
		Name:        f.Name,
		Quantity:    f.Quantity,
		MinQuantity: f.MinQuantity,
		Unit:        f.Unit,
		UnitCost:    f.UnitCost,
		CategoryID:  f.CategoryID,
		Category:    &ItemCategory{ID: f.CategoryID, Name: f.CategoryName},
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (i *Item) BelowMinimum() bool {
	return i.Quantity <= i.MinQuantity
}
