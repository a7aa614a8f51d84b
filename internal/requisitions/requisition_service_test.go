package requisitions

import (
	"context"
	"errors"
	"testing"
	"time"

	"procurement/pkg/auditlog"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRequisitionRepository struct {
	mock.Mock
}

func (m *MockRequisitionRepository) InsertRequisition(tx *goqu.TxDatabase, req models.CreateRequisitionRequest, createdByID int) (int, error) {
	args := m.Called(tx, req, createdByID)
	return args.Int(0), args.Error(1)
}

func (m *MockRequisitionRepository) InsertRequisitionItems(tx *goqu.TxDatabase, requisitionID int, items []models.RequisitionItemRequest) error {
	args := m.Called(tx, requisitionID, items)
	return args.Error(0)
}

func (m *MockRequisitionRepository) GetRequisitionRow(id int) (*models.Requisition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) GetRequisitionRows(filter ListFilter) ([]models.Requisition, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) GetRequisitionItems(requisitionID int) ([]models.RequisitionItem, error) {
	args := m.Called(requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RequisitionItem), args.Error(1)
}

func (m *MockRequisitionRepository) GetLineAvailability(requisitionID int) ([]LineAvailability, error) {
	args := m.Called(requisitionID)
	return args.Get(0).([]LineAvailability), args.Error(1)
}

func (m *MockRequisitionRepository) MarkProcessed(id int, status string, processedByID int, reason *string) (bool, error) {
	args := m.Called(id, status, processedByID, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequisitionRepository) DecrementItemStock(tx *goqu.TxDatabase, itemID, quantity int) (bool, error) {
	args := m.Called(tx, itemID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequisitionRepository) GetItemQuantity(tx *goqu.TxDatabase, itemID int) (int, error) {
	args := m.Called(tx, itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockRequisitionRepository) InsertIssueTransaction(tx *goqu.TxDatabase, itemID, quantity, userID, requisitionID int) (int, error) {
	args := m.Called(tx, itemID, quantity, userID, requisitionID)
	return args.Int(0), args.Error(1)
}

func (m *MockRequisitionRepository) MarkFulfilled(tx *goqu.TxDatabase, id, processedByID int) (bool, error) {
	args := m.Called(tx, id, processedByID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequisitionRepository) DeletePending(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// fakeRunner executes the closure directly; commit/rollback behavior is the
// database's concern and is out of scope for these tests.
type fakeRunner struct {
	tx     *goqu.TxDatabase
	txErr  error
	called bool
}

func (f *fakeRunner) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	f.called = true
	return fn(f.tx)
}

func (f *fakeRunner) WithTransactionTimeout(ctx context.Context, lockWait, txTimeout time.Duration, fn func(tx *goqu.TxDatabase) error) error {
	f.called = true
	if f.txErr != nil {
		return f.txErr
	}
	return fn(f.tx)
}

type nopRecorder struct{}

func (nopRecorder) PersistLog(models.AuditLog, interface{}) error { return nil }

type fakeNotifier struct {
	notified []*models.Requisition
}

func (f *fakeNotifier) RequisitionStatusChanged(requisition *models.Requisition) {
	f.notified = append(f.notified, requisition)
}

func newTestService(repo RequisitionRepository, runner TxRunner, notifier StatusNotifier) *RequisitionService {
	return NewService(
		runner,
		repo,
		auditlog.NewAuditLog(nopRecorder{}, zap.NewNop()),
		notifier,
		zap.NewNop(),
		10*time.Second,
		15*time.Second,
	)
}

func pendingRequisition(id int) *models.Requisition {
	return &models.Requisition{ID: id, Title: "Office supplies", Status: models.RequisitionStatusPending}
}

func approvedRequisition(id int) *models.Requisition {
	return &models.Requisition{ID: id, Title: "Office supplies", Status: models.RequisitionStatusApproved}
}

func TestChangeStatusRejectsInvalidTarget(t *testing.T) {
	svc := newTestService(new(MockRequisitionRepository), &fakeRunner{}, &fakeNotifier{})

	_, err := svc.ChangeStatus(1, models.RequisitionStatusFulfilled, "", 7)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.ChangeStatus(1, "SOMETHING", "", 7)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestChangeStatusRejectionRequiresReason(t *testing.T) {
	svc := newTestService(new(MockRequisitionRepository), &fakeRunner{}, &fakeNotifier{})

	_, err := svc.ChangeStatus(1, models.RequisitionStatusRejected, "", 7)
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestChangeStatusNotFound(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRow", 42).Return(nil, nil).Once()

	svc := newTestService(repo, &fakeRunner{}, &fakeNotifier{})

	_, err := svc.ChangeStatus(42, models.RequisitionStatusApproved, "", 7)
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertExpectations(t)
}

func TestChangeStatusOnlyFromPending(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRow", 1).Return(approvedRequisition(1), nil).Once()
	// the guarded update matches zero rows for an already-processed requisition
	repo.On("MarkProcessed", 1, models.RequisitionStatusApproved, 7, (*string)(nil)).Return(false, nil).Once()

	svc := newTestService(repo, &fakeRunner{}, &fakeNotifier{})

	_, err := svc.ChangeStatus(1, models.RequisitionStatusApproved, "", 7)
	assert.ErrorIs(t, err, ErrNotPending)
	repo.AssertExpectations(t)
}

func TestChangeStatusApproveSucceedsAndNotifies(t *testing.T) {
	repo := new(MockRequisitionRepository)
	notifier := &fakeNotifier{}

	repo.On("GetRequisitionRow", 1).Return(pendingRequisition(1), nil).Once()
	repo.On("MarkProcessed", 1, models.RequisitionStatusApproved, 7, (*string)(nil)).Return(true, nil).Once()
	repo.On("GetRequisitionRow", 1).Return(approvedRequisition(1), nil).Once()
	repo.On("GetRequisitionItems", 1).Return([]models.RequisitionItem{}, nil).Once()

	svc := newTestService(repo, &fakeRunner{}, notifier)

	requisition, err := svc.ChangeStatus(1, models.RequisitionStatusApproved, "", 7)
	assert.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusApproved, requisition.Status)
	assert.Len(t, notifier.notified, 1)
	repo.AssertExpectations(t)
}

func TestChangeStatusRejectPassesReason(t *testing.T) {
	repo := new(MockRequisitionRepository)

	rejected := pendingRequisition(1)
	rejected.Status = models.RequisitionStatusRejected

	repo.On("GetRequisitionRow", 1).Return(pendingRequisition(1), nil).Once()
	repo.On("MarkProcessed", 1, models.RequisitionStatusRejected, 7, mock.MatchedBy(func(reason *string) bool {
		return reason != nil && *reason == "budget exceeded"
	})).Return(true, nil).Once()
	repo.On("GetRequisitionRow", 1).Return(rejected, nil).Once()
	repo.On("GetRequisitionItems", 1).Return([]models.RequisitionItem{}, nil).Once()

	svc := newTestService(repo, &fakeRunner{}, &fakeNotifier{})

	requisition, err := svc.ChangeStatus(1, models.RequisitionStatusRejected, "budget exceeded", 7)
	assert.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusRejected, requisition.Status)
	repo.AssertExpectations(t)
}

func TestFulfillRequiresApprovedStatus(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRow", 1).Return(pendingRequisition(1), nil).Once()

	svc := newTestService(repo, &fakeRunner{}, &fakeNotifier{})

	_, err := svc.Fulfill(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrNotApproved)
	repo.AssertExpectations(t)
}

func TestFulfillInsufficientStockAbortsBeforeTransaction(t *testing.T) {
	repo := new(MockRequisitionRepository)
	runner := &fakeRunner{}

	repo.On("GetRequisitionRow", 9).Return(approvedRequisition(9), nil).Once()
	repo.On("GetLineAvailability", 9).Return([]LineAvailability{
		{ItemID: 1, ItemName: "Printer paper", Requested: 10, Available: 10},
		{ItemID: 2, ItemName: "Toner", Requested: 5, Available: 3},
	}, nil).Once()

	svc := newTestService(repo, runner, &fakeNotifier{})

	_, err := svc.Fulfill(context.Background(), 9, 7)

	var insufficientErr *InsufficientStockError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, []models.InsufficientItem{
		{ItemID: 2, ItemName: "Toner", Requested: 5, Available: 3},
	}, insufficientErr.Items)

	// no transaction was opened, nothing was mutated
	assert.False(t, runner.called)
	repo.AssertNotCalled(t, "DecrementItemStock", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkFulfilled", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestFulfillIssuesEveryLineAndMarksFulfilled(t *testing.T) {
	repo := new(MockRequisitionRepository)
	runner := &fakeRunner{}
	notifier := &fakeNotifier{}

	fulfilled := approvedRequisition(9)
	fulfilled.Status = models.RequisitionStatusFulfilled

	repo.On("GetRequisitionRow", 9).Return(approvedRequisition(9), nil).Once()
	repo.On("GetLineAvailability", 9).Return([]LineAvailability{
		{ItemID: 1, ItemName: "Printer paper", Requested: 10, Available: 10},
		{ItemID: 2, ItemName: "Toner", Requested: 2, Available: 6},
	}, nil).Once()
	repo.On("DecrementItemStock", runner.tx, 1, 10).Return(true, nil).Once()
	repo.On("InsertIssueTransaction", runner.tx, 1, 10, 7, 9).Return(101, nil).Once()
	repo.On("DecrementItemStock", runner.tx, 2, 2).Return(true, nil).Once()
	repo.On("InsertIssueTransaction", runner.tx, 2, 2, 7, 9).Return(102, nil).Once()
	repo.On("MarkFulfilled", runner.tx, 9, 7).Return(true, nil).Once()
	repo.On("GetRequisitionRow", 9).Return(fulfilled, nil).Once()
	repo.On("GetRequisitionItems", 9).Return([]models.RequisitionItem{}, nil).Once()

	svc := newTestService(repo, runner, notifier)

	result, err := svc.Fulfill(context.Background(), 9, 7)
	assert.NoError(t, err)
	assert.Equal(t, 9, result.RequisitionID)
	assert.Equal(t, []int{101, 102}, result.TransactionIDs)
	assert.Len(t, result.Lines, 2)
	assert.Len(t, notifier.notified, 1)
	repo.AssertExpectations(t)
}

func TestFulfillAbortsWhenStockMovedUnderneath(t *testing.T) {
	repo := new(MockRequisitionRepository)
	runner := &fakeRunner{}

	repo.On("GetRequisitionRow", 9).Return(approvedRequisition(9), nil).Once()
	repo.On("GetLineAvailability", 9).Return([]LineAvailability{
		{ItemID: 1, ItemName: "Printer paper", Requested: 10, Available: 10},
		{ItemID: 2, ItemName: "Toner", Requested: 2, Available: 6},
	}, nil).Once()
	repo.On("DecrementItemStock", runner.tx, 1, 10).Return(true, nil).Once()
	repo.On("InsertIssueTransaction", runner.tx, 1, 10, 7, 9).Return(101, nil).Once()
	// a concurrent fulfillment drained item 2 between pre-check and lock
	repo.On("DecrementItemStock", runner.tx, 2, 2).Return(false, nil).Once()
	repo.On("GetItemQuantity", runner.tx, 2).Return(1, nil).Once()

	svc := newTestService(repo, runner, &fakeNotifier{})

	_, err := svc.Fulfill(context.Background(), 9, 7)

	var insufficientErr *InsufficientStockError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, []models.InsufficientItem{
		{ItemID: 2, ItemName: "Toner", Requested: 2, Available: 1},
	}, insufficientErr.Items)
	repo.AssertNotCalled(t, "MarkFulfilled", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestFulfillSurfacesTimeoutAsRetryable(t *testing.T) {
	repo := new(MockRequisitionRepository)
	runner := &fakeRunner{txErr: context.DeadlineExceeded}

	repo.On("GetRequisitionRow", 9).Return(approvedRequisition(9), nil).Once()
	repo.On("GetLineAvailability", 9).Return([]LineAvailability{
		{ItemID: 1, ItemName: "Printer paper", Requested: 1, Available: 5},
	}, nil).Once()

	svc := newTestService(repo, runner, &fakeNotifier{})

	_, err := svc.Fulfill(context.Background(), 9, 7)
	assert.Error(t, err)
	assert.True(t, custom_error.IsRetryable(err))
	repo.AssertExpectations(t)
}

func TestDeleteOnlyWhilePending(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("DeletePending", 1).Return(true, nil).Once()

	svc := newTestService(repo, &fakeRunner{}, &fakeNotifier{})
	assert.NoError(t, svc.Delete(1))

	repo.On("DeletePending", 2).Return(false, nil).Once()
	repo.On("GetRequisitionRow", 2).Return(approvedRequisition(2), nil).Once()
	assert.ErrorIs(t, svc.Delete(2), ErrNotPendingDelete)

	repo.On("DeletePending", 3).Return(false, nil).Once()
	repo.On("GetRequisitionRow", 3).Return(nil, nil).Once()
	assert.ErrorIs(t, svc.Delete(3), ErrNotFound)

	repo.AssertExpectations(t)
}

func TestCreatePersistsHeaderAndLines(t *testing.T) {
	repo := new(MockRequisitionRepository)
	runner := &fakeRunner{}

	req := models.CreateRequisitionRequest{
		Title:        "Cleaning supplies",
		DepartmentID: 3,
		Items: []models.RequisitionItemRequest{
			{ItemID: 1, Quantity: 4},
		},
	}

	repo.On("InsertRequisition", runner.tx, req, 7).Return(55, nil).Once()
	repo.On("InsertRequisitionItems", runner.tx, 55, req.Items).Return(nil).Once()
	repo.On("GetRequisitionRow", 55).Return(pendingRequisition(55), nil).Once()
	repo.On("GetRequisitionItems", 55).Return([]models.RequisitionItem{{ItemID: 1, Quantity: 4}}, nil).Once()

	svc := newTestService(repo, runner, &fakeNotifier{})

	requisition, err := svc.Create(req, 7)
	assert.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusPending, requisition.Status)
	assert.Len(t, requisition.Items, 1)
	repo.AssertExpectations(t)
}

func TestCreateRollsUpRepositoryFailure(t *testing.T) {
	repo := new(MockRequisitionRepository)
	runner := &fakeRunner{}

	req := models.CreateRequisitionRequest{
		Title:        "Cleaning supplies",
		DepartmentID: 3,
		Items:        []models.RequisitionItemRequest{{ItemID: 1, Quantity: 4}},
	}

	repo.On("InsertRequisition", runner.tx, req, 7).Return(0, errors.New("insert failed")).Once()

	svc := newTestService(repo, runner, &fakeNotifier{})

	_, err := svc.Create(req, 7)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "InsertRequisitionItems", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
