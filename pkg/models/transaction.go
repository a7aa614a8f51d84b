package models

import "time"

const (
	TransactionTypeReceive = "RECEIVE"
	TransactionTypeIssue   = "ISSUE"
	TransactionTypeAdjust  = "ADJUST"
)

// Transaction is a stock-ledger row, not a database transaction.
// Quantity is signed: positive for RECEIVE, negative for ISSUE,
// either sign for ADJUST.
type Transaction struct {
	ID            int       `json:"id" db:"id"`
	Type          string    `json:"type" db:"type"`
	ItemID        int       `json:"item_id" db:"item_id"`
	ItemName      string    `json:"item_name,omitempty" db:"item_name"`
	Quantity      int       `json:"quantity" db:"quantity"`
	UserID        int       `json:"user_id" db:"user_id"`
	UserName      string    `json:"user_name,omitempty" db:"user_name"`
	RequisitionID *int      `json:"requisition_id,omitempty" db:"requisition_id"`
	Notes         string    `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type CreateTransactionRequest struct {
	Type     string `json:"type" binding:"required"`
	ItemID   int    `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}
