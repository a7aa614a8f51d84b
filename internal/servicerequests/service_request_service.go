package servicerequests

import (
	"errors"

	"procurement/pkg/auditlog"
	"procurement/pkg/models"
)

var (
	ErrRequestNotFound  = errors.New("service request not found")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrReasonRequired   = errors.New("rejection requires a reason")
	ErrNotPendingDelete = errors.New("only pending service requests can be deleted")
)

// allowedTransitions keeps the lifecycle forward-only: a completed or
// rejected request stays that way.
var allowedTransitions = map[string][]string{
	models.ServiceRequestStatusPending:    {models.ServiceRequestStatusInProgress, models.ServiceRequestStatusCompleted, models.ServiceRequestStatusRejected},
	models.ServiceRequestStatusInProgress: {models.ServiceRequestStatusCompleted, models.ServiceRequestStatusRejected},
}

type Notifier interface {
	ServiceRequestStatusChanged(request *models.ServiceRequest)
}

// Store is the slice of ServiceRequestRepository the service needs.
type Store interface {
	CreateRequest(request *models.ServiceRequest) error
	GetRequest(id int) (*models.ServiceRequest, error)
	UpdateRequestStatus(id int, status string, processedByID int, reason *string) error
	UpdateRequestAssignedTo(id int, assignedToID int) error
	DeletePending(id int) (bool, error)
	RequestExists(id int) (bool, error)
}

type Service struct {
	repository Store
	auditLog   *auditlog.Auditlog
	notifier   Notifier
}

func NewService(repository Store, auditLog *auditlog.Auditlog, notifier Notifier) *Service {
	return &Service{repository: repository, auditLog: auditLog, notifier: notifier}
}

func (s *Service) CreateRequest(req models.CreateServiceRequestRequest, createdByID int) (*models.ServiceRequest, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.ServiceRequestPriorityMedium
	}

	switch priority {
	case models.ServiceRequestPriorityLow, models.ServiceRequestPriorityMedium, models.ServiceRequestPriorityHigh:
	default:
		return nil, ErrInvalidPriority
	}

	request := &models.ServiceRequest{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		Status:       models.ServiceRequestStatusPending,
		DepartmentID: req.DepartmentID,
		CreatedByID:  createdByID,
	}

	if err := s.repository.CreateRequest(request); err != nil {
		return nil, err
	}

	s.auditLog.Log("service_request", request.ID, "create", &createdByID, map[string]interface{}{"new": req})

	return s.repository.GetRequest(request.ID)
}

func (s *Service) ChangeStatus(id int, newStatus, reason string, actorID int) (*models.ServiceRequest, error) {
	request, err := s.repository.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if request.Status == newStatus {
		return request, nil
	}

	allowed := false
	for _, next := range allowedTransitions[request.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidStatus
	}

	var reasonPtr *string
	if newStatus == models.ServiceRequestStatusRejected {
		if reason == "" {
			return nil, ErrReasonRequired
		}
		reasonPtr = &reason
	}

	if err := s.repository.UpdateRequestStatus(id, newStatus, actorID, reasonPtr); err != nil {
		return nil, err
	}

	s.auditLog.Log("service_request", id, "status_change", &actorID, map[string]interface{}{
		"old": map[string]interface{}{"status": request.Status},
		"new": map[string]interface{}{"status": newStatus, "rejection_reason": reason},
	})

	updated, err := s.repository.GetRequest(id)
	if err != nil {
		return nil, err
	}

	s.notifier.ServiceRequestStatusChanged(updated)

	return updated, nil
}

func (s *Service) AssignRequest(id, assignedToID, actorID int) error {
	exists, err := s.repository.RequestExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRequestNotFound
	}

	if err := s.repository.UpdateRequestAssignedTo(id, assignedToID); err != nil {
		return err
	}

	s.auditLog.Log("service_request", id, "assign", &actorID, map[string]interface{}{
		"assigned_to_id": assignedToID,
	})

	return nil
}

func (s *Service) Delete(id int) error {
	deleted, err := s.repository.DeletePending(id)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	exists, err := s.repository.RequestExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRequestNotFound
	}

	return ErrNotPendingDelete
}
