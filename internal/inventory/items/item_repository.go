package items

import (
	"fmt"

	"procurement/internal/repository"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ItemRepository interface {
	PersistItem(req CreateItemRequest) (int, error)
	GetItem(id int) (*models.Item, error)
	GetItems(lowStockOnly bool) ([]models.Item, error)
	UpdateItem(id int, req UpdateItemRequest) error
	DeleteItem(id int) error
	GetLowStockItems() ([]models.Item, error)
}

type itemRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ItemRepository {
	return &itemRepositoryImpl{repository: r}
}

func (r *itemRepositoryImpl) PersistItem(req CreateItemRequest) (int, error) {
	query := r.repository.GoquDBWrapper.Insert("items").
		Rows(goqu.Record{
			"name":         req.Name,
			"quantity":     req.Quantity,
			"min_quantity": req.MinQuantity,
			"unit":         req.Unit,
			"unit_cost":    req.UnitCost,
			"category_id":  req.CategoryID,
		}).
		Returning("id")

	var itemID int
	if _, err := query.Executor().ScanVal(&itemID); err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", custom_error.Classify(err))
	}

	return itemID, nil
}

func (r *itemRepositoryImpl) itemQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.id").As("id"),
			goqu.I("i.name").As("name"),
			goqu.I("i.quantity").As("quantity"),
			goqu.I("i.min_quantity").As("min_quantity"),
			goqu.I("i.unit").As("unit"),
			goqu.I("i.unit_cost").As("unit_cost"),
			goqu.I("i.category_id").As("category_id"),
			goqu.I("c.name").As("category_name"),
			goqu.I("i.created_at").As("created_at"),
			goqu.I("i.updated_at").As("updated_at"),
		).
		From(goqu.T("items").As("i")).
		LeftJoin(
			goqu.T("categories").As("c"),
			goqu.On(goqu.Ex{"i.category_id": goqu.I("c.id")}),
		)
}

func (r *itemRepositoryImpl) GetItem(id int) (*models.Item, error) {
	var flat models.FlatItem
	query := r.itemQuery().Where(goqu.Ex{"i.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("item %d not found", id)
	}

	item := flat.ToItem()
	return &item, nil
}

func (r *itemRepositoryImpl) GetItems(lowStockOnly bool) ([]models.Item, error) {
	query := r.itemQuery().Order(goqu.I("i.name").Asc())
	if lowStockOnly {
		query = query.Where(goqu.C("quantity").Table("i").Lte(goqu.C("min_quantity").Table("i")))
	}

	var flatItems []models.FlatItem
	if err := query.Executor().ScanStructs(&flatItems); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	items := make([]models.Item, 0, len(flatItems))
	for i := range flatItems {
		items = append(items, flatItems[i].ToItem())
	}

	return items, nil
}

func (r *itemRepositoryImpl) GetLowStockItems() ([]models.Item, error) {
	return r.GetItems(true)
}

func (r *itemRepositoryImpl) UpdateItem(id int, req UpdateItemRequest) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if req.Name != nil {
		record["name"] = *req.Name
	}
	if req.MinQuantity != nil {
		record["min_quantity"] = *req.MinQuantity
	}
	if req.Unit != nil {
		record["unit"] = *req.Unit
	}
	if req.UnitCost != nil {
		record["unit_cost"] = *req.UnitCost
	}
	if req.CategoryID != nil {
		record["category_id"] = *req.CategoryID
	}

	result, err := r.repository.GoquDBWrapper.Update("items").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update item: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %d not found", id)
	}

	return nil
}

func (r *itemRepositoryImpl) DeleteItem(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("items").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %d not found", id)
	}

	return nil
}
