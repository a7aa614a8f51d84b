package reports

import (
	"strings"
	"testing"

	"procurement/internal/transactions"
	"procurement/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubItemLister struct {
	items []models.Item
}

func (s *stubItemLister) GetItems(lowStockOnly bool) ([]models.Item, error) {
	if !lowStockOnly {
		return s.items, nil
	}
	var filtered []models.Item
	for _, item := range s.items {
		if item.BelowMinimum() {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

type stubTransactionLister struct {
	rows []models.Transaction
}

func (s *stubTransactionLister) GetTransactions(filter transactions.ListFilter) ([]models.Transaction, error) {
	return s.rows, nil
}

func testItems() []models.Item {
	return []models.Item{
		{
			ID:          1,
			Name:        "Copy paper, A4",
			Quantity:    40,
			MinQuantity: 10,
			Unit:        "ream",
			UnitCost:    decimal.RequireFromString("4.25"),
			Category:    &models.ItemCategory{ID: 1, Name: "Office"},
		},
		{
			ID:          2,
			Name:        "Toner cartridge",
			Quantity:    2,
			MinQuantity: 5,
			Unit:        "pcs",
			UnitCost:    decimal.RequireFromString("89.90"),
			Category:    &models.ItemCategory{ID: 1, Name: "Office"},
		},
	}
}

func TestInventoryReportValuesStockWithDecimals(t *testing.T) {
	service := NewService(&stubItemLister{items: testItems()}, nil)

	report, err := service.BuildInventoryReport(false)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, "170.00", report.Rows[0].StockValue.StringFixed(2))
	assert.False(t, report.Rows[0].BelowMin)
	assert.Equal(t, "179.80", report.Rows[1].StockValue.StringFixed(2))
	assert.True(t, report.Rows[1].BelowMin)
	assert.Equal(t, "349.80", report.TotalValue.StringFixed(2))
}

func TestInventoryReportLowStockFilter(t *testing.T) {
	service := NewService(&stubItemLister{items: testItems()}, nil)

	report, err := service.BuildInventoryReport(true)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Toner cartridge", report.Rows[0].Name)
	assert.Equal(t, "179.80", report.TotalValue.StringFixed(2))
}

func TestInventoryCSVQuotesNamesAndAppendsTotal(t *testing.T) {
	service := NewService(&stubItemLister{items: testItems()}, nil)

	report, err := service.BuildInventoryReport(false)
	require.NoError(t, err)

	data, err := inventoryCSV(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "item_id,name,category,quantity,min_quantity,unit,unit_cost,stock_value,below_min", lines[0])
	assert.Contains(t, lines[1], `"Copy paper, A4"`)
	assert.Contains(t, lines[3], "TOTAL")
	assert.Contains(t, lines[3], "349.80")
}

func TestTransactionCSVShape(t *testing.T) {
	requisitionID := 12
	lister := &stubTransactionLister{rows: []models.Transaction{
		{ID: 1, Type: models.TransactionTypeIssue, ItemID: 2, ItemName: "Toner cartridge", Quantity: -3, UserID: 4, UserName: "Jane Doe", RequisitionID: &requisitionID, Notes: "Issued for requisition #12"},
		{ID: 2, Type: models.TransactionTypeReceive, ItemID: 1, ItemName: "Copy paper, A4", Quantity: 100, UserID: 4, UserName: "Jane Doe"},
	}}
	service := NewService(nil, lister)

	report, err := service.BuildTransactionReport(nil, nil)
	require.NoError(t, err)

	data, err := transactionCSV(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "ISSUE")
	assert.Contains(t, lines[1], ",12,")
	assert.Contains(t, lines[2], "RECEIVE")
}
