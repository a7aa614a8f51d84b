package reports

import (
	"time"

	"procurement/internal/transactions"
	"procurement/pkg/models"

	"github.com/shopspring/decimal"
)

type ItemLister interface {
	GetItems(lowStockOnly bool) ([]models.Item, error)
}

type TransactionLister interface {
	GetTransactions(filter transactions.ListFilter) ([]models.Transaction, error)
}

type InventoryReportRow struct {
	ItemID      int             `json:"item_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Unit        string          `json:"unit"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	StockValue  decimal.Decimal `json:"stock_value"`
	BelowMin    bool            `json:"below_min"`
}

type InventoryReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Rows        []InventoryReportRow `json:"rows"`
	TotalValue  decimal.Decimal      `json:"total_value"`
}

type TransactionReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	From        *time.Time           `json:"from,omitempty"`
	To          *time.Time           `json:"to,omitempty"`
	Rows        []models.Transaction `json:"rows"`
}

type Service struct {
	items        ItemLister
	transactions TransactionLister
}

func NewService(items ItemLister, transactionRepo TransactionLister) *Service {
	return &Service{items: items, transactions: transactionRepo}
}

// BuildInventoryReport values each item at quantity times unit cost and sums
// the grand total with decimal arithmetic, so the figures match what finance
// computes from the same rows.
func (s *Service) BuildInventoryReport(lowStockOnly bool) (*InventoryReport, error) {
	items, err := s.items.GetItems(lowStockOnly)
	if err != nil {
		return nil, err
	}

	report := &InventoryReport{
		GeneratedAt: time.Now().UTC(),
		Rows:        make([]InventoryReportRow, 0, len(items)),
		TotalValue:  decimal.Zero,
	}

	for i := range items {
		item := &items[i]
		stockValue := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))

		category := ""
		if item.Category != nil {
			category = item.Category.Name
		}

		report.Rows = append(report.Rows, InventoryReportRow{
			ItemID:      item.ID,
			Name:        item.Name,
			Category:    category,
			Quantity:    item.Quantity,
			MinQuantity: item.MinQuantity,
			Unit:        item.Unit,
			UnitCost:    item.UnitCost,
			StockValue:  stockValue,
			BelowMin:    item.BelowMinimum(),
		})
		report.TotalValue = report.TotalValue.Add(stockValue)
	}

	return report, nil
}

func (s *Service) BuildTransactionReport(from, to *time.Time) (*TransactionReport, error) {
	filter := transactions.ListFilter{From: from}
	if to != nil {
		// inclusive end date
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	rows, err := s.transactions.GetTransactions(filter)
	if err != nil {
		return nil, err
	}

	return &TransactionReport{
		GeneratedAt: time.Now().UTC(),
		From:        from,
		To:          to,
		Rows:        rows,
	}, nil
}
