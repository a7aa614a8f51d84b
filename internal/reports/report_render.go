package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// inventoryCSV renders the report with a trailing TOTAL row. encoding/csv
// handles quoting for item names with commas.
func inventoryCSV(report *InventoryReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"item_id", "name", "category", "quantity", "min_quantity", "unit", "unit_cost", "stock_value", "below_min"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		record := []string{
			strconv.Itoa(row.ItemID),
			row.Name,
			row.Category,
			strconv.Itoa(row.Quantity),
			strconv.Itoa(row.MinQuantity),
			row.Unit,
			row.UnitCost.StringFixed(2),
			row.StockValue.StringFixed(2),
			strconv.FormatBool(row.BelowMin),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	total := []string{"", "TOTAL", "", "", "", "", "", report.TotalValue.StringFixed(2), ""}
	if err := writer.Write(total); err != nil {
		return nil, err
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func transactionCSV(report *TransactionReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "type", "item_id", "item_name", "quantity", "user_id", "user_name", "requisition_id", "notes", "created_at"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		requisitionID := ""
		if row.RequisitionID != nil {
			requisitionID = strconv.Itoa(*row.RequisitionID)
		}
		record := []string{
			strconv.Itoa(row.ID),
			row.Type,
			strconv.Itoa(row.ItemID),
			row.ItemName,
			strconv.Itoa(row.Quantity),
			strconv.Itoa(row.UserID),
			row.UserName,
			requisitionID,
			row.Notes,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func inventoryXLSX(report *InventoryReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Inventory"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"Item ID", "Name", "Category", "Quantity", "Min Quantity", "Unit", "Unit Cost", "Stock Value", "Below Min"}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range report.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.ItemID,
			row.Name,
			row.Category,
			row.Quantity,
			row.MinQuantity,
			row.Unit,
			row.UnitCost.StringFixed(2),
			row.StockValue.StringFixed(2),
			row.BelowMin,
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	totalCell := fmt.Sprintf("A%d", len(report.Rows)+2)
	totalRow := []interface{}{"", "TOTAL", "", "", "", "", "", report.TotalValue.StringFixed(2), ""}
	if err := file.SetSheetRow(sheet, totalCell, &totalRow); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func transactionXLSX(report *TransactionReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Transactions"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"ID", "Type", "Item ID", "Item Name", "Quantity", "User ID", "User Name", "Requisition ID", "Notes", "Created At"}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range report.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		requisitionID := ""
		if row.RequisitionID != nil {
			requisitionID = strconv.Itoa(*row.RequisitionID)
		}
		values := []interface{}{
			row.ID,
			row.Type,
			row.ItemID,
			row.ItemName,
			row.Quantity,
			row.UserID,
			row.UserName,
			requisitionID,
			row.Notes,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
