package transactions

import (
	"testing"

	"procurement/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestRecordRejectsInvalidRequests(t *testing.T) {
	// validation happens before any transaction is opened, so no runner or
	// repository is needed
	service := NewService(nil, nil, nil)

	tests := []struct {
		name    string
		request models.CreateTransactionRequest
		wantErr error
	}{
		{
			name:    "unknown type",
			request: models.CreateTransactionRequest{Type: "TRANSFER", ItemID: 1, Quantity: 5},
			wantErr: ErrInvalidType,
		},
		{
			name:    "manual issue",
			request: models.CreateTransactionRequest{Type: models.TransactionTypeIssue, ItemID: 1, Quantity: -5},
			wantErr: ErrIssueNotAllowed,
		},
		{
			name:    "receive with negative quantity",
			request: models.CreateTransactionRequest{Type: models.TransactionTypeReceive, ItemID: 1, Quantity: -5},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "adjust with zero quantity",
			request: models.CreateTransactionRequest{Type: models.TransactionTypeAdjust, ItemID: 1},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transaction, err := service.Record(tc.request, 7)
			assert.Nil(t, transaction)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
