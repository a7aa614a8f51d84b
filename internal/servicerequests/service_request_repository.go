package servicerequests

import (
	"fmt"
	"time"

	"procurement/internal/repository"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ServiceRequestRepository struct {
	Repository *repository.Repository
}

func NewServiceRequestRepository(r *repository.Repository) *ServiceRequestRepository {
	return &ServiceRequestRepository{Repository: r}
}

func (r *ServiceRequestRepository) CreateRequest(request *models.ServiceRequest) error {
	row := goqu.Record{
		"title":         request.Title,
		"description":   request.Description,
		"priority":      request.Priority,
		"status":        request.Status,
		"department_id": request.DepartmentID,
		"created_by_id": request.CreatedByID,
	}

	query := r.Repository.GoquDBWrapper.Insert("service_requests").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&request.ID); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", custom_error.Classify(err))
	}

	return nil
}

func (r *ServiceRequestRepository) requestQuery() *goqu.SelectDataset {
	return r.Repository.GoquDBWrapper.
		Select(
			goqu.I("sr.id").As("id"),
			goqu.I("sr.title").As("title"),
			goqu.I("sr.description").As("description"),
			goqu.I("sr.priority").As("priority"),
			goqu.I("sr.status").As("status"),
			goqu.I("sr.department_id").As("department_id"),
			goqu.I("d.name").As("department_name"),
			goqu.I("sr.created_by_id").As("created_by_id"),
			goqu.I("u.fullname").As("created_by_name"),
			goqu.I("sr.assigned_to_id").As("assigned_to_id"),
			goqu.I("sr.processed_by_id").As("processed_by_id"),
			goqu.I("sr.processed_at").As("processed_at"),
			goqu.I("sr.rejection_reason").As("rejection_reason"),
			goqu.I("sr.created_at").As("created_at"),
			goqu.I("sr.updated_at").As("updated_at"),
		).
		From(goqu.T("service_requests").As("sr")).
		LeftJoin(
			goqu.T("departments").As("d"),
			goqu.On(goqu.Ex{"sr.department_id": goqu.I("d.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"sr.created_by_id": goqu.I("u.id")}),
		)
}

func (r *ServiceRequestRepository) GetRequest(id int) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	query := r.requestQuery().Where(goqu.Ex{"sr.id": id})

	found, err := query.Executor().ScanStruct(&request)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &request, nil
}

func (r *ServiceRequestRepository) GetRequests(status string, departmentID *int, limit, offset int) ([]models.ServiceRequest, error) {
	query := r.requestQuery().Order(goqu.I("sr.created_at").Desc())

	if status != "" {
		query = query.Where(goqu.Ex{"sr.status": status})
	}
	if departmentID != nil {
		query = query.Where(goqu.Ex{"sr.department_id": *departmentID})
	}
	if limit > 0 {
		query = query.Limit(uint(limit))
	}
	if offset > 0 {
		query = query.Offset(uint(offset))
	}

	var requests []models.ServiceRequest
	if err := query.Executor().ScanStructs(&requests); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return requests, nil
}

func (r *ServiceRequestRepository) UpdateRequestStatus(id int, status string, processedByID int, reason *string) error {
	record := goqu.Record{
		"status":          status,
		"processed_by_id": processedByID,
		"processed_at":    time.Now(),
		"updated_at":      goqu.L("NOW()"),
	}
	if reason != nil {
		record["rejection_reason"] = *reason
	}

	query := r.Repository.GoquDBWrapper.Update("service_requests").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", custom_error.Classify(err))
	}

	return nil
}

func (r *ServiceRequestRepository) UpdateRequestAssignedTo(id int, assignedToID int) error {
	query := r.Repository.GoquDBWrapper.Update("service_requests").
		Set(goqu.Record{
			"assigned_to_id": assignedToID,
			"updated_at":     goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", custom_error.Classify(err))
	}

	return nil
}

func (r *ServiceRequestRepository) DeletePending(id int) (bool, error) {
	result, err := r.Repository.GoquDBWrapper.Delete("service_requests").
		Where(goqu.Ex{"id": id, "status": models.ServiceRequestStatusPending}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *ServiceRequestRepository) RequestExists(id int) (bool, error) {
	var exists bool
	query := r.Repository.GoquDBWrapper.
		Select(goqu.L("EXISTS (SELECT 1 FROM service_requests WHERE id = ?)", id))

	if _, err := query.Executor().ScanVal(&exists); err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return exists, nil
}
