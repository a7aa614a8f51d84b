package notifications

import (
	"bytes"
	"testing"

	"procurement/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRecipients(t *testing.T) {
	assert.Nil(t, splitRecipients(""))
	assert.Equal(t, []string{"ops@example.gov"}, splitRecipients("ops@example.gov"))
	assert.Equal(t,
		[]string{"ops@example.gov", "warehouse@example.gov"},
		splitRecipients(" ops@example.gov, warehouse@example.gov ,"),
	)
}

func TestRequisitionTemplateIncludesRejectionReason(t *testing.T) {
	reason := "budget exceeded for this quarter"
	requisition := &models.Requisition{
		ID:              7,
		Title:           "Office supplies Q3",
		Status:          models.RequisitionStatusRejected,
		DepartmentName:  "Public Works",
		CreatedByName:   "Jane Doe",
		RejectionReason: &reason,
	}

	var body bytes.Buffer
	require.NoError(t, requisitionTemplate.Execute(&body, requisition))

	rendered := body.String()
	assert.Contains(t, rendered, `Requisition #7 "Office supplies Q3" is now REJECTED.`)
	assert.Contains(t, rendered, "Reason: budget exceeded for this quarter")
}

func TestLowStockTemplateListsEveryItem(t *testing.T) {
	items := []models.Item{
		{Name: "Toner cartridge", Quantity: 2, MinQuantity: 5, Unit: "pcs"},
		{Name: "Copy paper", Quantity: 0, MinQuantity: 10, Unit: "ream"},
	}

	var body bytes.Buffer
	require.NoError(t, lowStockTemplate.Execute(&body, items))

	rendered := body.String()
	assert.Contains(t, rendered, "Toner cartridge: 2 pcs on hand (minimum 5)")
	assert.Contains(t, rendered, "Copy paper: 0 ream on hand (minimum 10)")
}
