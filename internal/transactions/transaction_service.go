package transactions

import (
	"errors"

	"procurement/pkg/auditlog"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrIssueNotAllowed     = errors.New("issues are recorded through requisition fulfillment")
	ErrInvalidQuantity     = errors.New("invalid quantity for transaction type")
	ErrItemNotFound        = errors.New("item not found")
	ErrNegativeStock       = errors.New("adjustment would take stock below zero")
)

// TxRunner is the slice of repository.Repository the service needs.
type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

type Service struct {
	runner     TxRunner
	repository *TransactionRepository
	auditLog   *auditlog.Auditlog
}

func NewService(runner TxRunner, repository *TransactionRepository, auditLog *auditlog.Auditlog) *Service {
	return &Service{runner: runner, repository: repository, auditLog: auditLog}
}

// Record writes a ledger row and moves the item balance in one transaction.
// RECEIVE takes a positive quantity, ADJUST a signed non-zero one. ISSUE rows
// are only ever written by fulfillment, never through this path.
func (s *Service) Record(req models.CreateTransactionRequest, userID int) (*models.Transaction, error) {
	switch req.Type {
	case models.TransactionTypeReceive:
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	case models.TransactionTypeAdjust:
		if req.Quantity == 0 {
			return nil, ErrInvalidQuantity
		}
	case models.TransactionTypeIssue:
		return nil, ErrIssueNotAllowed
	default:
		return nil, ErrInvalidType
	}

	transaction := &models.Transaction{
		Type:     req.Type,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		UserID:   userID,
		Notes:    req.Notes,
	}

	err := s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		ok, err := s.repository.AdjustItemStock(tx, req.ItemID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			exists, err := s.repository.ItemExists(tx, req.ItemID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrItemNotFound
			}
			return ErrNegativeStock
		}

		return s.repository.InsertTransaction(tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.auditLog.Log("transaction", transaction.ID, "create", &userID, map[string]interface{}{
		"type":     transaction.Type,
		"item_id":  transaction.ItemID,
		"quantity": transaction.Quantity,
	})

	return s.repository.GetTransaction(transaction.ID)
}

func (s *Service) Get(id int) (*models.Transaction, error) {
	transaction, err := s.repository.GetTransaction(id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}

func (s *Service) List(filter ListFilter) ([]models.Transaction, error) {
	return s.repository.GetTransactions(filter)
}
