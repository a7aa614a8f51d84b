package departments

import (
	"fmt"

	"procurement/internal/repository"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type DepartmentRepository interface {
	PersistDepartment(req models.DepartmentRequest) (*models.Department, error)
	GetDepartment(id int) (*models.Department, error)
	GetDepartments() ([]models.Department, error)
	UpdateDepartment(id int, req models.DepartmentRequest) error
	DeleteDepartment(id int) error
}

type departmentRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) DepartmentRepository {
	return &departmentRepositoryImpl{repository: r}
}

func (r *departmentRepositoryImpl) PersistDepartment(req models.DepartmentRequest) (*models.Department, error) {
	query := r.repository.GoquDBWrapper.Insert("departments").
		Rows(goqu.Record{
			"name":        req.Name,
			"description": req.Description,
		}).
		Returning("id")

	department := models.Department{
		Name:        req.Name,
		Description: req.Description,
	}

	if _, err := query.Executor().ScanVal(&department.ID); err != nil {
		return nil, fmt.Errorf("failed to insert department: %w", custom_error.Classify(err))
	}

	return &department, nil
}

func (r *departmentRepositoryImpl) GetDepartment(id int) (*models.Department, error) {
	var department models.Department
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description", "created_at").
		From("departments").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&department)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("department %d not found", id)
	}

	return &department, nil
}

func (r *departmentRepositoryImpl) GetDepartments() ([]models.Department, error) {
	var departments []models.Department
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description", "created_at").
		From("departments").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&departments); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return departments, nil
}

func (r *departmentRepositoryImpl) UpdateDepartment(id int, req models.DepartmentRequest) error {
	query := r.repository.GoquDBWrapper.Update("departments").
		Set(goqu.Record{
			"name":        req.Name,
			"description": req.Description,
		}).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update department: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("department %d not found", id)
	}

	return nil
}

func (r *departmentRepositoryImpl) DeleteDepartment(id int) error {
	query := r.repository.GoquDBWrapper.Delete("departments").Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("department %d not found", id)
	}

	return nil
}
