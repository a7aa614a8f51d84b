package requisitions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procurement/pkg/auditlog"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

var (
	ErrNotFound         = errors.New("requisition not found")
	ErrInvalidStatus    = errors.New("status must be APPROVED or REJECTED")
	ErrNotPending       = errors.New("requisition has already been processed")
	ErrReasonRequired   = errors.New("rejection requires a reason")
	ErrNotApproved      = errors.New("only approved requisitions can be fulfilled")
	ErrNotPendingDelete = errors.New("only pending requisitions can be deleted")
)

// InsufficientStockError carries the full list of under-stocked lines so the
// caller can adjust the requisition instead of guessing.
type InsufficientStockError struct {
	Items []models.InsufficientItem
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Items))
}

// StatusNotifier sends best-effort notifications on lifecycle events.
type StatusNotifier interface {
	RequisitionStatusChanged(requisition *models.Requisition)
}

// TxRunner is the slice of *repository.Repository the service needs.
type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
	WithTransactionTimeout(ctx context.Context, lockWait, txTimeout time.Duration, fn func(tx *goqu.TxDatabase) error) error
}

type FulfillmentResult struct {
	RequisitionID  int                      `json:"requisition_id"`
	TransactionIDs []int                    `json:"transaction_ids"`
	Lines          []models.RequisitionItem `json:"lines"`
}

type RequisitionService struct {
	runner    TxRunner
	repo      RequisitionRepository
	auditLog  *auditlog.Auditlog
	notifier  StatusNotifier
	logger    *zap.Logger
	lockWait  time.Duration
	txTimeout time.Duration
}

func NewService(runner TxRunner, repo RequisitionRepository, auditLog *auditlog.Auditlog, notifier StatusNotifier, logger *zap.Logger, lockWait, txTimeout time.Duration) *RequisitionService {
	return &RequisitionService{
		runner:    runner,
		repo:      repo,
		auditLog:  auditLog,
		notifier:  notifier,
		logger:    logger,
		lockWait:  lockWait,
		txTimeout: txTimeout,
	}
}

func (s *RequisitionService) Create(req models.CreateRequisitionRequest, createdByID int) (*models.Requisition, error) {
	var requisitionID int

	err := s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		if requisitionID, err = s.repo.InsertRequisition(tx, req, createdByID); err != nil {
			return err
		}

		return s.repo.InsertRequisitionItems(tx, requisitionID, req.Items)
	})
	if err != nil {
		return nil, err
	}

	s.auditLog.Log("requisition", requisitionID, "create", &createdByID, map[string]interface{}{
		"new": req,
	})

	return s.Get(requisitionID)
}

func (s *RequisitionService) Get(id int) (*models.Requisition, error) {
	requisition, err := s.repo.GetRequisitionRow(id)
	if err != nil {
		return nil, err
	}
	if requisition == nil {
		return nil, ErrNotFound
	}

	lines, err := s.repo.GetRequisitionItems(id)
	if err != nil {
		return nil, err
	}
	requisition.Items = lines

	return requisition, nil
}

func (s *RequisitionService) List(filter ListFilter) ([]models.Requisition, error) {
	return s.repo.GetRequisitionRows(filter)
}

// ChangeStatus performs the PENDING -> APPROVED|REJECTED transition. The
// notification and audit entry fire after the transition persists and never
// undo it.
func (s *RequisitionService) ChangeStatus(id int, status, reason string, actorID int) (*models.Requisition, error) {
	if status != models.RequisitionStatusApproved && status != models.RequisitionStatusRejected {
		return nil, ErrInvalidStatus
	}
	if status == models.RequisitionStatusRejected && reason == "" {
		return nil, ErrReasonRequired
	}

	existing, err := s.repo.GetRequisitionRow(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	var reasonPtr *string
	if status == models.RequisitionStatusRejected {
		reasonPtr = &reason
	}

	updated, err := s.repo.MarkProcessed(id, status, actorID, reasonPtr)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotPending
	}

	s.auditLog.Log("requisition", id, statusAction(status), &actorID, map[string]interface{}{
		"old": map[string]interface{}{"status": existing.Status},
		"new": map[string]interface{}{"status": status, "rejection_reason": reason},
	})

	requisition, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	s.notifier.RequisitionStatusChanged(requisition)

	return requisition, nil
}

// Fulfill issues stock for an approved requisition: all line items or none.
// The pre-check gives callers a friendly rejection before the transaction
// opens; the guarded decrement inside the transaction is the authoritative
// defense against concurrent oversell.
func (s *RequisitionService) Fulfill(ctx context.Context, id, actorID int) (*FulfillmentResult, error) {
	requisition, err := s.repo.GetRequisitionRow(id)
	if err != nil {
		return nil, err
	}
	if requisition == nil {
		return nil, ErrNotFound
	}
	if requisition.Status != models.RequisitionStatusApproved {
		return nil, ErrNotApproved
	}

	lines, err := s.repo.GetLineAvailability(id)
	if err != nil {
		return nil, err
	}

	if insufficient := understocked(lines); len(insufficient) > 0 {
		return nil, &InsufficientStockError{Items: insufficient}
	}

	result := &FulfillmentResult{RequisitionID: id}

	err = s.runner.WithTransactionTimeout(ctx, s.lockWait, s.txTimeout, func(tx *goqu.TxDatabase) error {
		for _, line := range lines {
			ok, err := s.repo.DecrementItemStock(tx, line.ItemID, line.Requested)
			if err != nil {
				return err
			}
			if !ok {
				// stock moved between pre-check and lock acquisition;
				// report the level the guard actually saw
				available, qErr := s.repo.GetItemQuantity(tx, line.ItemID)
				if qErr != nil {
					return qErr
				}
				return &InsufficientStockError{Items: []models.InsufficientItem{{
					ItemID:    line.ItemID,
					ItemName:  line.ItemName,
					Requested: line.Requested,
					Available: available,
				}}}
			}

			transactionID, err := s.repo.InsertIssueTransaction(tx, line.ItemID, line.Requested, actorID, id)
			if err != nil {
				return err
			}
			result.TransactionIDs = append(result.TransactionIDs, transactionID)
			result.Lines = append(result.Lines, models.RequisitionItem{
				ItemID:   line.ItemID,
				ItemName: line.ItemName,
				Quantity: line.Requested,
			})
		}

		ok, err := s.repo.MarkFulfilled(tx, id, actorID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotApproved
		}

		return nil
	})
	if err != nil {
		if custom_error.IsRetryable(custom_error.Classify(err)) {
			s.logger.Warn("Fulfillment transaction timed out", zap.Int("requisition_id", id), zap.Error(err))
		}
		return nil, custom_error.Classify(err)
	}

	s.auditLog.Log("requisition", id, "fulfill", &actorID, map[string]interface{}{
		"transaction_ids": result.TransactionIDs,
		"lines":           result.Lines,
	})

	if requisition, err := s.Get(id); err == nil {
		s.notifier.RequisitionStatusChanged(requisition)
	}

	return result, nil
}

func (s *RequisitionService) Delete(id int) error {
	deleted, err := s.repo.DeletePending(id)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	existing, err := s.repo.GetRequisitionRow(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	return ErrNotPendingDelete
}

func understocked(lines []LineAvailability) []models.InsufficientItem {
	var insufficient []models.InsufficientItem
	for _, line := range lines {
		if line.Available < line.Requested {
			insufficient = append(insufficient, models.InsufficientItem{
				ItemID:    line.ItemID,
				ItemName:  line.ItemName,
				Requested: line.Requested,
				Available: line.Available,
			})
		}
	}
	return insufficient
}

func statusAction(status string) string {
	if status == models.RequisitionStatusApproved {
		return "approve"
	}
	return "reject"
}
