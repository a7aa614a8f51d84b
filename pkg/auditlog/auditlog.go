package auditlog

import (
	"procurement/pkg/models"

	"go.uber.org/zap"
)

type Recorder interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

// Auditlog is a fire-and-forget facade: a failed write is logged and
// swallowed so auditing can never break a business operation.
type Auditlog struct {
	recorder Recorder
	logger   *zap.Logger
}

func NewAuditLog(recorder Recorder, logger *zap.Logger) *Auditlog {
	return &Auditlog{recorder: recorder, logger: logger}
}

func (a *Auditlog) Log(resourceType string, resourceID int, action string, userID *int, data interface{}) {
	entry := models.AuditLog{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		UserID:       userID,
	}

	if err := a.recorder.PersistLog(entry, data); err != nil {
		a.logger.Warn("Unable to create audit log entry",
			zap.String("resource_type", resourceType),
			zap.Int("resource_id", resourceID),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("Created audit log entry",
		zap.String("resource_type", resourceType),
		zap.Int("resource_id", resourceID),
		zap.String("action", action),
	)
}
