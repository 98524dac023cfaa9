package infra

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"stockpos/internal/config"
	"stockpos/internal/model"
)

// Mailer wraps SMTP configuration for the alert emails. All sends are
// best-effort: callers log failures and move on, nothing user-facing ever
// waits on the relay.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	to       string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		to:       cfg.AlertEmail,
	}
}

// SendLowStockAlert mails the restocking alert for a product that just
// dropped to or below its threshold.
func (m *Mailer) SendLowStockAlert(p model.Product) error {
	urgency := "HIGH — low stock"
	if p.Quantity == 0 {
		urgency = "CRITICAL — out of stock"
	}

	subject := fmt.Sprintf("[stockpos] Stock alert: %s", p.Name)
	body := fmt.Sprintf(
		"Product:       %s\n"+
			"Category:      %s\n"+
			"Supplier:      %s\n"+
			"Current stock: %d\n"+
			"Min stock:     %d\n"+
			"Urgency:       %s\n"+
			"Detected:      %s\n",
		p.Name, orUnspecified(p.Category), orUnspecified(p.Supplier),
		p.Quantity, p.MinStock, urgency,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	return m.send(subject, body)
}

// SendRestockConfirmation mails the before/after quantities of a restock.
func (m *Mailer) SendRestockConfirmation(p model.Product, amountAdded int) error {
	subject := fmt.Sprintf("[stockpos] Restocked: %s", p.Name)
	body := fmt.Sprintf(
		"Product:        %s\n"+
			"Category:       %s\n"+
			"Supplier:       %s\n"+
			"Previous stock: %d\n"+
			"Added:          %d\n"+
			"Current stock:  %d\n"+
			"Min stock:      %d\n"+
			"When:           %s\n",
		p.Name, orUnspecified(p.Category), orUnspecified(p.Supplier),
		p.Quantity-amountAdded, amountAdded, p.Quantity, p.MinStock,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	return m.send(subject, body)
}

func (m *Mailer) send(subject, body string) error {
	if m.to == "" {
		return fmt.Errorf("mailer: ALERT_EMAIL not configured")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.to}
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
