package notifications

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"procurement/internal/config"
	"procurement/pkg/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var requisitionTemplate = template.Must(template.New("requisition").Parse(
	`Requisition #{{.ID}} "{{.Title}}" is now {{.Status}}.

Department: {{.DepartmentName}}
Requested by: {{.CreatedByName}}
{{- if .RejectionReason}}
Reason: {{.RejectionReason}}
{{- end}}
`))

var serviceRequestTemplate = template.Must(template.New("serviceRequest").Parse(
	`Service request #{{.ID}} "{{.Title}}" is now {{.Status}}.

Department: {{.DepartmentName}}
Priority: {{.Priority}}
Requested by: {{.CreatedByName}}
{{- if .RejectionReason}}
Reason: {{.RejectionReason}}
{{- end}}
`))

var lowStockTemplate = template.Must(template.New("lowStock").Parse(
	`The following items are at or below their minimum stock level:

{{range .}}  - {{.Name}}: {{.Quantity}} {{.Unit}} on hand (minimum {{.MinQuantity}})
{{end}}`))

// Mailer sends status and low-stock notifications over SMTP. Delivery is
// best effort: failures are logged and swallowed so mail outages never fail
// the request that triggered them.
type Mailer struct {
	enabled    bool
	dialer     *gomail.Dialer
	from       string
	recipients []string
	log        *zap.Logger
}

func NewMailer(cfg config.Config, log *zap.Logger) *Mailer {
	recipients := splitRecipients(cfg.Notifications.Recipients)
	enabled := cfg.Notifications.Enabled && cfg.SMTP.Host != "" && len(recipients) > 0

	mailer := &Mailer{
		enabled:    enabled,
		from:       cfg.SMTP.From,
		recipients: recipients,
		log:        log,
	}
	if enabled {
		mailer.dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	}

	return mailer
}

func splitRecipients(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}

func (m *Mailer) RequisitionStatusChanged(requisition *models.Requisition) {
	if requisition == nil {
		return
	}

	var body bytes.Buffer
	if err := requisitionTemplate.Execute(&body, requisition); err != nil {
		m.log.Warn("failed to render requisition notification", zap.Error(err))
		return
	}

	m.send("Requisition #"+strconv.Itoa(requisition.ID)+" "+requisition.Status, body.String())
}

func (m *Mailer) ServiceRequestStatusChanged(request *models.ServiceRequest) {
	if request == nil {
		return
	}

	var body bytes.Buffer
	if err := serviceRequestTemplate.Execute(&body, request); err != nil {
		m.log.Warn("failed to render service request notification", zap.Error(err))
		return
	}

	m.send("Service request #"+strconv.Itoa(request.ID)+" "+request.Status, body.String())
}

func (m *Mailer) LowStockAlert(items []models.Item) {
	if len(items) == 0 {
		return
	}

	var body bytes.Buffer
	if err := lowStockTemplate.Execute(&body, items); err != nil {
		m.log.Warn("failed to render low stock notification", zap.Error(err))
		return
	}

	m.send("Low stock alert", body.String())
}

func (m *Mailer) send(subject, body string) {
	if !m.enabled {
		m.log.Debug("email notifications disabled, skipping", zap.String("subject", subject))
		return
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", m.recipients...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	go func() {
		if err := m.dialer.DialAndSend(message); err != nil {
			m.log.Warn("failed to send notification email",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}
