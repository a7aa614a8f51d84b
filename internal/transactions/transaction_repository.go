package transactions

import (
	"fmt"
	"time"

	"procurement/internal/repository"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type TransactionRepository struct {
	Repository *repository.Repository
}

func NewTransactionRepository(r *repository.Repository) *TransactionRepository {
	return &TransactionRepository{Repository: r}
}

type ListFilter struct {
	Type   string
	ItemID *int
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

func (r *TransactionRepository) transactionQuery() *goqu.SelectDataset {
	return r.Repository.GoquDBWrapper.
		Select(
			goqu.I("t.id").As("id"),
			goqu.I("t.type").As("type"),
			goqu.I("t.item_id").As("item_id"),
			goqu.I("i.name").As("item_name"),
			goqu.I("t.quantity").As("quantity"),
			goqu.I("t.user_id").As("user_id"),
			goqu.I("u.fullname").As("user_name"),
			goqu.I("t.requisition_id").As("requisition_id"),
			goqu.I("t.notes").As("notes"),
			goqu.I("t.created_at").As("created_at"),
		).
		From(goqu.T("transactions").As("t")).
		LeftJoin(
			goqu.T("items").As("i"),
			goqu.On(goqu.Ex{"t.item_id": goqu.I("i.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"t.user_id": goqu.I("u.id")}),
		)
}

func (r *TransactionRepository) GetTransaction(id int) (*models.Transaction, error) {
	var transaction models.Transaction
	query := r.transactionQuery().Where(goqu.Ex{"t.id": id})

	found, err := query.Executor().ScanStruct(&transaction)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &transaction, nil
}

func (r *TransactionRepository) GetTransactions(filter ListFilter) ([]models.Transaction, error) {
	query := r.transactionQuery().Order(goqu.I("t.created_at").Desc(), goqu.I("t.id").Desc())

	if filter.Type != "" {
		query = query.Where(goqu.Ex{"t.type": filter.Type})
	}
	if filter.ItemID != nil {
		query = query.Where(goqu.Ex{"t.item_id": *filter.ItemID})
	}
	if filter.From != nil {
		query = query.Where(goqu.I("t.created_at").Gte(*filter.From))
	}
	if filter.To != nil {
		query = query.Where(goqu.I("t.created_at").Lt(*filter.To))
	}
	if filter.Limit > 0 {
		query = query.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint(filter.Offset))
	}

	var transactions []models.Transaction
	if err := query.Executor().ScanStructs(&transactions); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return transactions, nil
}

// AdjustItemStock applies a signed delta to an item's quantity. The guard
// clause keeps the balance from going negative; rowsAffected zero means the
// item does not exist or the delta would undershoot.
func (r *TransactionRepository) AdjustItemStock(tx *goqu.TxDatabase, itemID, delta int) (bool, error) {
	query := tx.Update("items").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity + ?", delta),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(
			goqu.C("id").Eq(itemID),
			goqu.L("quantity + ?", delta).Gte(0),
		)

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *TransactionRepository) InsertTransaction(tx *goqu.TxDatabase, transaction *models.Transaction) error {
	row := goqu.Record{
		"type":     transaction.Type,
		"item_id":  transaction.ItemID,
		"quantity": transaction.Quantity,
		"user_id":  transaction.UserID,
		"notes":    transaction.Notes,
	}
	if transaction.RequisitionID != nil {
		row["requisition_id"] = *transaction.RequisitionID
	}

	query := tx.Insert("transactions").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&transaction.ID); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", custom_error.Classify(err))
	}

	return nil
}

func (r *TransactionRepository) ItemExists(tx *goqu.TxDatabase, itemID int) (bool, error) {
	var exists bool
	query := tx.Select(goqu.L("EXISTS (SELECT 1 FROM items WHERE id = ?)", itemID))

	if _, err := query.Executor().ScanVal(&exists); err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return exists, nil
}
