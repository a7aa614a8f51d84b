package dashboard

import (
	"fmt"

	"procurement/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

type DashboardRepository struct {
	Repository *repository.Repository
}

func NewDashboardRepository(r *repository.Repository) *DashboardRepository {
	return &DashboardRepository{Repository: r}
}

type statusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (r *DashboardRepository) countsByStatus(table string, departmentID *int) (map[string]int, error) {
	query := r.Repository.GoquDBWrapper.
		Select(goqu.C("status"), goqu.COUNT("*").As("count")).
		From(table).
		GroupBy(goqu.C("status"))

	if departmentID != nil {
		query = query.Where(goqu.Ex{"department_id": *departmentID})
	}

	var rows []statusCount
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *DashboardRepository) RequisitionCountsByStatus(departmentID *int) (map[string]int, error) {
	return r.countsByStatus("requisitions", departmentID)
}

func (r *DashboardRepository) ServiceRequestCountsByStatus(departmentID *int) (map[string]int, error) {
	return r.countsByStatus("service_requests", departmentID)
}

func (r *DashboardRepository) ItemCount() (int, error) {
	var count int
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("items")

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return count, nil
}

func (r *DashboardRepository) LowStockCount() (int, error) {
	var count int
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("items").
		Where(goqu.C("quantity").Lte(goqu.C("min_quantity")))

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return count, nil
}

func (r *DashboardRepository) InventoryValue() (decimal.Decimal, error) {
	var value decimal.NullDecimal
	query := r.Repository.GoquDBWrapper.
		Select(goqu.L("SUM(quantity * unit_cost)")).
		From("items")

	if _, err := query.Executor().ScanVal(&value); err != nil {
		return decimal.Zero, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !value.Valid {
		return decimal.Zero, nil
	}

	return value.Decimal, nil
}
