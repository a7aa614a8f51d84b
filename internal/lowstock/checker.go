package lowstock

import (
	"fmt"

	"procurement/pkg/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type ItemSource interface {
	GetLowStockItems() ([]models.Item, error)
}

type Alerter interface {
	LowStockAlert(items []models.Item)
}

// Checker runs a daily scan for items at or below their minimum level.
// Findings go to the log and, when mail is configured, to the notification
// recipients. There is no persistence: a missed run is simply skipped.
type Checker struct {
	items   ItemSource
	alerter Alerter
	log     *zap.Logger
	cron    *cron.Cron
}

func NewChecker(items ItemSource, alerter Alerter, log *zap.Logger) *Checker {
	return &Checker{
		items:   items,
		alerter: alerter,
		log:     log,
		cron:    cron.New(),
	}
}

// Start schedules the daily run at the given hour. The first run happens at
// the next occurrence, not at startup.
func (c *Checker) Start(hour int) error {
	spec := fmt.Sprintf("0 %d * * *", hour)
	if _, err := c.cron.AddFunc(spec, c.Run); err != nil {
		return fmt.Errorf("failed to schedule low stock check: %w", err)
	}

	c.cron.Start()
	c.log.Info("low stock checker scheduled", zap.String("spec", spec))
	return nil
}

func (c *Checker) Stop() {
	c.cron.Stop()
}

func (c *Checker) Run() {
	items, err := c.items.GetLowStockItems()
	if err != nil {
		c.log.Error("low stock check failed", zap.Error(err))
		return
	}

	if len(items) == 0 {
		c.log.Info("low stock check found nothing")
		return
	}

	for _, item := range items {
		c.log.Warn("item below minimum stock",
			zap.Int("item_id", item.ID),
			zap.String("name", item.Name),
			zap.Int("quantity", item.Quantity),
			zap.Int("min_quantity", item.MinQuantity),
		)
	}

	c.alerter.LowStockAlert(items)
}
