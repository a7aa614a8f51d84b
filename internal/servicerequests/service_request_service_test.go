package servicerequests

import (
	"testing"

	"procurement/pkg/auditlog"
	"procurement/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateRequest(request *models.ServiceRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockStore) GetRequest(id int) (*models.ServiceRequest, error) {
	args := m.Called(id)
	if request, ok := args.Get(0).(*models.ServiceRequest); ok {
		return request, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) UpdateRequestStatus(id int, status string, processedByID int, reason *string) error {
	args := m.Called(id, status, processedByID, reason)
	return args.Error(0)
}

func (m *MockStore) UpdateRequestAssignedTo(id int, assignedToID int) error {
	args := m.Called(id, assignedToID)
	return args.Error(0)
}

func (m *MockStore) DeletePending(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) RequestExists(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

type nopRecorder struct{}

func (nopRecorder) PersistLog(models.AuditLog, interface{}) error { return nil }

type fakeNotifier struct {
	notified []*models.ServiceRequest
}

func (f *fakeNotifier) ServiceRequestStatusChanged(request *models.ServiceRequest) {
	f.notified = append(f.notified, request)
}

func newTestService(store Store, notifier Notifier) *Service {
	return NewService(store, auditlog.NewAuditLog(nopRecorder{}, zap.NewNop()), notifier)
}

func TestCreateRequestDefaultsPriorityToMedium(t *testing.T) {
	store := new(MockStore)
	store.On("CreateRequest", mock.MatchedBy(func(request *models.ServiceRequest) bool {
		return request.Priority == models.ServiceRequestPriorityMedium &&
			request.Status == models.ServiceRequestStatusPending
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.ServiceRequest).ID = 3
	}).Return(nil)
	store.On("GetRequest", 3).Return(&models.ServiceRequest{ID: 3}, nil)

	service := newTestService(store, &fakeNotifier{})

	request, err := service.CreateRequest(models.CreateServiceRequestRequest{
		Title:        "Broken projector",
		DepartmentID: 2,
	}, 5)

	require.NoError(t, err)
	assert.Equal(t, 3, request.ID)
	store.AssertExpectations(t)
}

func TestCreateRequestRejectsUnknownPriority(t *testing.T) {
	service := newTestService(new(MockStore), &fakeNotifier{})

	request, err := service.CreateRequest(models.CreateServiceRequestRequest{
		Title:        "Broken projector",
		Priority:     "URGENT",
		DepartmentID: 2,
	}, 5)

	assert.Nil(t, request)
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestChangeStatusFollowsLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		allowed bool
	}{
		{"pending to in progress", models.ServiceRequestStatusPending, models.ServiceRequestStatusInProgress, true},
		{"pending to completed", models.ServiceRequestStatusPending, models.ServiceRequestStatusCompleted, true},
		{"in progress to completed", models.ServiceRequestStatusInProgress, models.ServiceRequestStatusCompleted, true},
		{"completed is final", models.ServiceRequestStatusCompleted, models.ServiceRequestStatusInProgress, false},
		{"rejected is final", models.ServiceRequestStatusRejected, models.ServiceRequestStatusInProgress, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("GetRequest", 1).Return(&models.ServiceRequest{ID: 1, Status: tc.current}, nil)
			if tc.allowed {
				store.On("UpdateRequestStatus", 1, tc.target, 9, (*string)(nil)).Return(nil)
			}

			notifier := &fakeNotifier{}
			service := newTestService(store, notifier)

			_, err := service.ChangeStatus(1, tc.target, "", 9)
			if tc.allowed {
				require.NoError(t, err)
				assert.Len(t, notifier.notified, 1)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				store.AssertNotCalled(t, "UpdateRequestStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestChangeStatusRequiresReasonForRejection(t *testing.T) {
	store := new(MockStore)
	store.On("GetRequest", 1).Return(&models.ServiceRequest{ID: 1, Status: models.ServiceRequestStatusPending}, nil)

	service := newTestService(store, &fakeNotifier{})

	_, err := service.ChangeStatus(1, models.ServiceRequestStatusRejected, "", 9)
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	store := new(MockStore)
	store.On("GetRequest", 1).Return(&models.ServiceRequest{ID: 1, Status: models.ServiceRequestStatusInProgress}, nil)

	notifier := &fakeNotifier{}
	service := newTestService(store, notifier)

	request, err := service.ChangeStatus(1, models.ServiceRequestStatusInProgress, "", 9)
	require.NoError(t, err)
	assert.Equal(t, models.ServiceRequestStatusInProgress, request.Status)
	assert.Empty(t, notifier.notified)
	store.AssertNotCalled(t, "UpdateRequestStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignRequestUnknownRequest(t *testing.T) {
	store := new(MockStore)
	store.On("RequestExists", 42).Return(false, nil)

	service := newTestService(store, &fakeNotifier{})

	err := service.AssignRequest(42, 7, 9)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestDeleteOnlyPendingRequests(t *testing.T) {
	t.Run("deletes pending", func(t *testing.T) {
		store := new(MockStore)
		store.On("DeletePending", 1).Return(true, nil)

		service := newTestService(store, &fakeNotifier{})
		assert.NoError(t, service.Delete(1))
	})

	t.Run("missing request", func(t *testing.T) {
		store := new(MockStore)
		store.On("DeletePending", 1).Return(false, nil)
		store.On("RequestExists", 1).Return(false, nil)

		service := newTestService(store, &fakeNotifier{})
		assert.ErrorIs(t, service.Delete(1), ErrRequestNotFound)
	})

	t.Run("processed request", func(t *testing.T) {
		store := new(MockStore)
		store.On("DeletePending", 1).Return(false, nil)
		store.On("RequestExists", 1).Return(true, nil)

		service := newTestService(store, &fakeNotifier{})
		assert.ErrorIs(t, service.Delete(1), ErrNotPendingDelete)
	})
}
