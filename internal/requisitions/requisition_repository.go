package requisitions

import (
	"fmt"
	"time"

	"procurement/internal/repository"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type RequisitionRepository interface {
	InsertRequisition(tx *goqu.TxDatabase, req models.CreateRequisitionRequest, createdByID int) (int, error)
	InsertRequisitionItems(tx *goqu.TxDatabase, requisitionID int, items []models.RequisitionItemRequest) error
	GetRequisitionRow(id int) (*models.Requisition, error)
	GetRequisitionRows(filter ListFilter) ([]models.Requisition, error)
	GetRequisitionItems(requisitionID int) ([]models.RequisitionItem, error)
	GetLineAvailability(requisitionID int) ([]LineAvailability, error)
	MarkProcessed(id int, status string, processedByID int, reason *string) (bool, error)
	DecrementItemStock(tx *goqu.TxDatabase, itemID, quantity int) (bool, error)
	GetItemQuantity(tx *goqu.TxDatabase, itemID int) (int, error)
	InsertIssueTransaction(tx *goqu.TxDatabase, itemID, quantity, userID, requisitionID int) (int, error)
	MarkFulfilled(tx *goqu.TxDatabase, id, processedByID int) (bool, error)
	DeletePending(id int) (bool, error)
}

type ListFilter struct {
	Status       string
	DepartmentID *int
	Limit        int
	Offset       int
}

// LineAvailability pairs a requisition line with the live stock level of its
// item at read time.
type LineAvailability struct {
	ItemID    int    `db:"item_id"`
	ItemName  string `db:"item_name"`
	Requested int    `db:"requested"`
	Available int    `db:"available"`
}

type requisitionRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) RequisitionRepository {
	return &requisitionRepositoryImpl{repository: r}
}

func (r *requisitionRepositoryImpl) InsertRequisition(tx *goqu.TxDatabase, req models.CreateRequisitionRequest, createdByID int) (int, error) {
	query := tx.Insert("requisitions").
		Rows(goqu.Record{
			"title":         req.Title,
			"status":        models.RequisitionStatusPending,
			"department_id": req.DepartmentID,
			"created_by_id": createdByID,
		}).
		Returning("id")

	var requisitionID int
	if _, err := query.Executor().ScanVal(&requisitionID); err != nil {
		return 0, fmt.Errorf("failed to insert requisition: %w", custom_error.Classify(err))
	}

	return requisitionID, nil
}

func (r *requisitionRepositoryImpl) InsertRequisitionItems(tx *goqu.TxDatabase, requisitionID int, items []models.RequisitionItemRequest) error {
	var records []goqu.Record
	for _, line := range items {
		records = append(records, goqu.Record{
			"requisition_id": requisitionID,
			"item_id":        line.ItemID,
			"quantity":       line.Quantity,
		})
	}

	query := tx.Insert("requisition_items").Rows(records)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert requisition items: %w", custom_error.Classify(err))
	}

	return nil
}

func (r *requisitionRepositoryImpl) requisitionQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.title").As("title"),
			goqu.I("r.status").As("status"),
			goqu.I("r.department_id").As("department_id"),
			goqu.I("d.name").As("department_name"),
			goqu.I("r.created_by_id").As("created_by_id"),
			goqu.I("u.fullname").As("created_by_name"),
			goqu.I("r.processed_by_id").As("processed_by_id"),
			goqu.I("r.processed_at").As("processed_at"),
			goqu.I("r.rejection_reason").As("rejection_reason"),
			goqu.I("r.created_at").As("created_at"),
			goqu.I("r.updated_at").As("updated_at"),
		).
		From(goqu.T("requisitions").As("r")).
		LeftJoin(
			goqu.T("departments").As("d"),
			goqu.On(goqu.Ex{"r.department_id": goqu.I("d.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"r.created_by_id": goqu.I("u.id")}),
		)
}

func (r *requisitionRepositoryImpl) GetRequisitionRow(id int) (*models.Requisition, error) {
	var requisition models.Requisition
	query := r.requisitionQuery().Where(goqu.Ex{"r.id": id})

	found, err := query.Executor().ScanStruct(&requisition)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &requisition, nil
}

func (r *requisitionRepositoryImpl) GetRequisitionRows(filter ListFilter) ([]models.Requisition, error) {
	query := r.requisitionQuery().Order(goqu.I("r.created_at").Desc())

	if filter.Status != "" {
		query = query.Where(goqu.Ex{"r.status": filter.Status})
	}
	if filter.DepartmentID != nil {
		query = query.Where(goqu.Ex{"r.department_id": *filter.DepartmentID})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint(filter.Offset))
	}

	var requisitions []models.Requisition
	if err := query.Executor().ScanStructs(&requisitions); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return requisitions, nil
}

func (r *requisitionRepositoryImpl) GetRequisitionItems(requisitionID int) ([]models.RequisitionItem, error) {
	var lines []models.RequisitionItem
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("ri.id").As("id"),
			goqu.I("ri.item_id").As("item_id"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.unit").As("unit"),
			goqu.I("ri.quantity").As("quantity"),
			goqu.I("i.quantity").As("available"),
		).
		From(goqu.T("requisition_items").As("ri")).
		LeftJoin(
			goqu.T("items").As("i"),
			goqu.On(goqu.Ex{"ri.item_id": goqu.I("i.id")}),
		).
		Where(goqu.Ex{"ri.requisition_id": requisitionID}).
		Order(goqu.I("ri.id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return lines, nil
}

func (r *requisitionRepositoryImpl) GetLineAvailability(requisitionID int) ([]LineAvailability, error) {
	var lines []LineAvailability
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("ri.item_id").As("item_id"),
			goqu.I("i.name").As("item_name"),
			goqu.I("ri.quantity").As("requested"),
			goqu.I("i.quantity").As("available"),
		).
		From(goqu.T("requisition_items").As("ri")).
		LeftJoin(
			goqu.T("items").As("i"),
			goqu.On(goqu.Ex{"ri.item_id": goqu.I("i.id")}),
		).
		Where(goqu.Ex{"ri.requisition_id": requisitionID}).
		Order(goqu.I("ri.id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return lines, nil
}

// MarkProcessed flips PENDING to APPROVED or REJECTED. The status predicate
// makes the transition single-shot under concurrency: the second caller
// matches zero rows.
func (r *requisitionRepositoryImpl) MarkProcessed(id int, status string, processedByID int, reason *string) (bool, error) {
	record := goqu.Record{
		"status":          status,
		"processed_by_id": processedByID,
		"processed_at":    time.Now(),
		"updated_at":      goqu.L("NOW()"),
	}
	if reason != nil {
		record["rejection_reason"] = *reason
	}

	result, err := r.repository.GoquDBWrapper.Update("requisitions").
		Set(record).
		Where(goqu.Ex{"id": id, "status": models.RequisitionStatusPending}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update requisition %d status: %w", id, custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DecrementItemStock issues stock with a guarded update; the quantity
// predicate is what keeps concurrent fulfillments from overselling.
func (r *requisitionRepositoryImpl) DecrementItemStock(tx *goqu.TxDatabase, itemID, quantity int) (bool, error) {
	result, err := tx.Update("items").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity - ?", quantity),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": itemID}).
		Where(goqu.C("quantity").Gte(quantity)).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock for item %d: %w", itemID, custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetItemQuantity reads the live stock level inside the fulfillment
// transaction. A missing item reads as zero.
func (r *requisitionRepositoryImpl) GetItemQuantity(tx *goqu.TxDatabase, itemID int) (int, error) {
	var quantity int
	query := tx.Select(goqu.C("quantity")).
		From("items").
		Where(goqu.Ex{"id": itemID})

	found, err := query.Executor().ScanVal(&quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to read quantity for item %d: %w", itemID, err)
	}
	if !found {
		return 0, nil
	}

	return quantity, nil
}

func (r *requisitionRepositoryImpl) InsertIssueTransaction(tx *goqu.TxDatabase, itemID, quantity, userID, requisitionID int) (int, error) {
	query := tx.Insert("transactions").
		Rows(goqu.Record{
			"type":           models.TransactionTypeIssue,
			"item_id":        itemID,
			"quantity":       -quantity,
			"user_id":        userID,
			"requisition_id": requisitionID,
			"notes":          fmt.Sprintf("Issued for requisition #%d", requisitionID),
		}).
		Returning("id")

	var transactionID int
	if _, err := query.Executor().ScanVal(&transactionID); err != nil {
		return 0, fmt.Errorf("failed to insert issue transaction: %w", custom_error.Classify(err))
	}

	return transactionID, nil
}

func (r *requisitionRepositoryImpl) MarkFulfilled(tx *goqu.TxDatabase, id, processedByID int) (bool, error) {
	result, err := tx.Update("requisitions").
		Set(goqu.Record{
			"status":          models.RequisitionStatusFulfilled,
			"processed_by_id": processedByID,
			"processed_at":    time.Now(),
			"updated_at":      goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id, "status": models.RequisitionStatusApproved}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to mark requisition %d fulfilled: %w", id, custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *requisitionRepositoryImpl) DeletePending(id int) (bool, error) {
	result, err := r.repository.GoquDBWrapper.Delete("requisitions").
		Where(goqu.Ex{"id": id, "status": models.RequisitionStatusPending}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to delete requisition %d: %w", id, custom_error.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
