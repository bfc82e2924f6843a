package utils

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"agencydesk/config"

	"github.com/badoux/checkmail"
	"gopkg.in/gomail.v2"
)

// ErrDomainNotVerified marks the provider rejecting our sending domain.
// Callers surface this as a client-actionable error instead of a plain 500.
var ErrDomainNotVerified = errors.New("sending domain not verified")

// ContractDetails is the payload rendered into the contract e-mail.
type ContractDetails struct {
	ClientCompany string        `json:"client_company"`
	TotalValue    float64       `json:"total_value"`
	Currency      string        `json:"currency"`
	Number        string        `json:"number"`
	Services      []ServiceLine `json:"services"`
}

type ServiceLine struct {
	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price"`
}

// Embedded contract email template
var contractTemplate = template.Must(template.New("contract").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Service Agreement {{.Details.Number}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        .total { font-size: 18px; font-weight: bold; color: #2c3e50; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Service Agreement {{.Details.Number}}</h2>
    </div>

    <div class="content">
        <p>Hello {{.Details.ClientCompany}},</p>
        <p>Please find below the summary of your service agreement:</p>

        <table>
            <tr><th>Service</th><th>Price</th></tr>
            {{range .Details.Services}}
            <tr><td>{{.ServiceName}}</td><td>{{$.Details.Currency}} {{printf "%.2f" .Price}}</td></tr>
            {{end}}
        </table>

        <p class="total">Total: {{.Details.Currency}} {{printf "%.2f" .Details.TotalValue}}</p>

        <p>Reply to this e-mail with any questions about the agreement.</p>
    </div>

    <div class="footer">
        <p>&copy; {{.Year}} {{.FromName}}. All rights reserved.</p>
    </div>
</body>
</html>`))

// ContractMailer delivers contract e-mails over the configured SMTP relay.
type ContractMailer struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewContractMailer() *ContractMailer {
	cfg := config.AppConfig
	return &ContractMailer{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// SendContract renders and delivers the agreement summary. Returns
// ErrDomainNotVerified (wrapped) when the relay rejects our sender domain.
func (m *ContractMailer) SendContract(recipientEmail string, details ContractDetails) error {
	if err := checkmail.ValidateFormat(recipientEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	var body bytes.Buffer
	data := struct {
		Details  ContractDetails
		Year     int
		FromName string
	}{Details: details, Year: time.Now().Year(), FromName: m.fromName}

	if err := contractTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render contract email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, m.fromName)
	msg.SetHeader("To", recipientEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Service Agreement %s - %s", details.Number, details.ClientCompany))
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		if isDomainNotVerified(err) {
			return fmt.Errorf("%w: %v", ErrDomainNotVerified, err)
		}
		return fmt.Errorf("failed to send contract email: %w", err)
	}
	return nil
}

// isDomainNotVerified classifies SMTP policy rejections for unverified
// sender domains (550/554 class responses from providers like Resend or SES).
func isDomainNotVerified(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"domain not verified",
		"domain is not verified",
		"sender address rejected",
		"sender verify failed",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
