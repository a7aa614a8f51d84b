package category

import (
	"fmt"

	"procurement/internal/repository"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type CategoryRepository interface {
	PersistCategory(name string) (*models.ItemCategory, error)
	GetCategories() ([]models.ItemCategory, error)
	UpdateCategory(id int, name string) error
	DeleteCategory(id int) error
}

type categoryRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) CategoryRepository {
	return &categoryRepositoryImpl{repository: r}
}

func (r *categoryRepositoryImpl) PersistCategory(name string) (*models.ItemCategory, error) {
	query := r.repository.GoquDBWrapper.Insert("categories").
		Rows(goqu.Record{"name": name}).
		Returning("id")

	category := models.ItemCategory{Name: name}
	if _, err := query.Executor().ScanVal(&category.ID); err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", custom_error.Classify(err))
	}

	return &category, nil
}

func (r *categoryRepositoryImpl) GetCategories() ([]models.ItemCategory, error) {
	var categories []models.ItemCategory
	query := r.repository.GoquDBWrapper.
		Select("id", "name").
		From("categories").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return categories, nil
}

func (r *categoryRepositoryImpl) UpdateCategory(id int, name string) error {
	result, err := r.repository.GoquDBWrapper.Update("categories").
		Set(goqu.Record{"name": name}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update category: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category %d not found", id)
	}

	return nil
}

func (r *categoryRepositoryImpl) DeleteCategory(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("categories").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category %d not found", id)
	}

	return nil
}
