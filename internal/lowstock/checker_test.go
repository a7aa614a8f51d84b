package lowstock

import (
	"errors"
	"testing"

	"procurement/pkg/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubItemSource struct {
	items []models.Item
	err   error
}

func (s *stubItemSource) GetLowStockItems() ([]models.Item, error) {
	return s.items, s.err
}

type spyAlerter struct {
	called bool
	items  []models.Item
}

func (s *spyAlerter) LowStockAlert(items []models.Item) {
	s.called = true
	s.items = items
}

func TestRunAlertsOnLowStock(t *testing.T) {
	source := &stubItemSource{items: []models.Item{
		{ID: 2, Name: "Toner cartridge", Quantity: 2, MinQuantity: 5},
	}}
	alerter := &spyAlerter{}

	checker := NewChecker(source, alerter, zap.NewNop())
	checker.Run()

	assert.True(t, alerter.called)
	assert.Len(t, alerter.items, 1)
}

func TestRunStaysQuietWhenStockIsFine(t *testing.T) {
	alerter := &spyAlerter{}

	checker := NewChecker(&stubItemSource{}, alerter, zap.NewNop())
	checker.Run()

	assert.False(t, alerter.called)
}

func TestRunSwallowsQueryErrors(t *testing.T) {
	source := &stubItemSource{err: errors.New("connection refused")}
	alerter := &spyAlerter{}

	checker := NewChecker(source, alerter, zap.NewNop())
	checker.Run()

	assert.False(t, alerter.called)
}
