package models

import "time"

const (
	RequisitionStatusPending   = "PENDING"
	RequisitionStatusApproved  = "APPROVED"
	RequisitionStatusRejected  = "REJECTED"
	RequisitionStatusFulfilled = "FULFILLED"
)

type Requisition struct {
	ID              int               `json:"id" db:"id"`
	Title           string            `json:"title" db:"title"`
	Status          string            `json:"status" db:"status"`
	DepartmentID    int               `json:"department_id" db:"department_id"`
	DepartmentName  string            `json:"department_name,omitempty" db:"department_name"`
	CreatedByID     int               `json:"created_by_id" db:"created_by_id"`
	CreatedByName   string            `json:"created_by_name,omitempty" db:"created_by_name"`
	ProcessedByID   *int              `json:"processed_by_id,omitempty" db:"processed_by_id"`
	ProcessedAt     *time.Time        `json:"processed_at,omitempty" db:"processed_at"`
	RejectionReason *string           `json:"rejection_reason,omitempty" db:"rejection_reason"`
	Items           []RequisitionItem `json:"items,omitempty" db:"-"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

type RequisitionItem struct {
	ID       int    `json:"id" db:"id"`
	ItemID   int    `json:"item_id" db:"item_id"`
	ItemName string `json:"item_name,omitempty" db:"item_name"`
	Unit     string `json:"unit,omitempty" db:"unit"`
	Quantity int    `json:"quantity" db:"quantity"`
	// Available is the item's live stock level at read time. Nil on rows
	// where it was not queried, e.g. fulfillment result lines.
	Available *int `json:"available,omitempty" db:"available"`
}

type CreateRequisitionRequest struct {
	Title        string                   `json:"title" binding:"required"`
	DepartmentID int                      `json:"department_id" binding:"required"`
	Items        []RequisitionItemRequest `json:"items" binding:"required,min=1,dive"`
}

type RequisitionItemRequest struct {
	ItemID   int `json:"item_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type RequisitionStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// InsufficientItem reports one under-stocked line during fulfillment.
type InsufficientItem struct {
	ItemID    int    `json:"item_id"`
	ItemName  string `json:"item_name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
