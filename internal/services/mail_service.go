// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"
)

type IMailService interface {
	SendPaymentConfirmation(ctx context.Context, email PaymentEmail) error
	SendPaymentFailed(ctx context.Context, email PaymentEmail) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // envelope from, the configured default_from_email
	FromName string
	UseSSL   bool // true for SMTPS 465, false for STARTTLS 587

	AppName string
}

// PaymentEmail is everything the payment templates need, already formatted.
type PaymentEmail struct {
	To               string
	RecipientName    string
	TransactionID    string
	BookingReference string
	Amount           string
	Currency         string
	PaymentMethod    string
	Status           string
	CompletedAt      string
}

type smtpMailService struct {
	cfg         SMTPConfig
	confirmHTML *template.Template
	failedHTML  *template.Template
	confirmText *texttemplate.Template
	failedText  *texttemplate.Template
	deliver     func(to, subject, htmlBody, textBody string) error
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("mail: sender address is required")
	}
	if cfg.AppName == "" {
		cfg.AppName = "ALX Travel App"
	}

	s := &smtpMailService{
		cfg:         cfg,
		confirmHTML: template.Must(template.New("confirmHTML").Parse(confirmationHTMLTemplate)),
		failedHTML:  template.Must(template.New("failedHTML").Parse(failedHTMLTemplate)),
		confirmText: texttemplate.Must(texttemplate.New("confirmText").Parse(confirmationTextTemplate)),
		failedText:  texttemplate.Must(texttemplate.New("failedText").Parse(failedTextTemplate)),
	}
	s.deliver = s.send
	return s, nil
}

// ------------------- Public API -------------------

func (s *smtpMailService) SendPaymentConfirmation(_ context.Context, email PaymentEmail) error {
	subject := fmt.Sprintf("Payment Confirmation - Booking %s", email.BookingReference)
	return s.renderAndSend(email, subject, s.confirmHTML, s.confirmText)
}

func (s *smtpMailService) SendPaymentFailed(_ context.Context, email PaymentEmail) error {
	subject := fmt.Sprintf("Payment Failed - Booking %s", email.BookingReference)
	return s.renderAndSend(email, subject, s.failedHTML, s.failedText)
}

// ------------------- Rendering -------------------

type emailData struct {
	PaymentEmail
	AppName string
	Year    int
}

func (s *smtpMailService) renderAndSend(email PaymentEmail, subject string, htmlTpl *template.Template, textTpl *texttemplate.Template) error {
	if email.To == "" {
		return fmt.Errorf("mail: recipient address is empty")
	}
	if email.PaymentMethod == "" {
		email.PaymentMethod = "N/A"
	}
	if email.CompletedAt == "" {
		email.CompletedAt = "N/A"
	}

	data := emailData{PaymentEmail: email, AppName: s.cfg.AppName, Year: time.Now().Year()}

	var hb, tb bytes.Buffer
	if err := htmlTpl.Execute(&hb, data); err != nil {
		return err
	}
	if err := textTpl.Execute(&tb, data); err != nil {
		return err
	}
	return s.deliver(email.To, subject, hb.String(), tb.String())
}

const emailStyle = `
    body { margin: 0; padding: 0; background: #f8fafc; color: #0f172a;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 600px; margin: 32px auto; background: #ffffff; border-radius: 12px;
      box-shadow: 0 10px 30px rgba(0, 0, 0, 0.08); overflow: hidden; }
    .header { padding: 24px 32px; border-bottom: 1px solid rgba(0, 0, 0, 0.06);
      font-weight: 700; font-size: 20px; color: #2563eb; text-transform: uppercase; }
    .hero { padding: 32px; }
    h2 { margin: 0 0 16px; font-size: 24px; }
    h3 { margin: 24px 0 8px; font-size: 16px; }
    p, li { line-height: 1.6; color: #475569; font-size: 15px; }
    .footer { padding: 16px 32px; color: #64748b; font-size: 13px; text-align: center; background: #f8fafc; }
`

const confirmationHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Payment Confirmation</title>
  <style>` + emailStyle + `</style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <h2>Payment Confirmation</h2>
      <p>Dear {{.RecipientName}},</p>
      <p>Your payment has been successfully processed!</p>
      <h3>Payment Details:</h3>
      <ul>
        <li><strong>Transaction ID:</strong> {{.TransactionID}}</li>
        <li><strong>Booking Reference:</strong> {{.BookingReference}}</li>
        <li><strong>Amount:</strong> {{.Amount}} {{.Currency}}</li>
        <li><strong>Payment Method:</strong> {{.PaymentMethod}}</li>
        <li><strong>Status:</strong> {{.Status}}</li>
        <li><strong>Date:</strong> {{.CompletedAt}}</li>
      </ul>
      <p>Thank you for choosing {{.AppName}}!</p>
      <p>Best regards,<br>{{.AppName}} Team</p>
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}. All rights reserved.</div>
  </div>
</body>
</html>`

const failedHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Payment Failed</title>
  <style>` + emailStyle + `</style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <h2>Payment Failed</h2>
      <p>Dear {{.RecipientName}},</p>
      <p>Unfortunately, your payment could not be processed.</p>
      <h3>Payment Details:</h3>
      <ul>
        <li><strong>Transaction ID:</strong> {{.TransactionID}}</li>
        <li><strong>Booking Reference:</strong> {{.BookingReference}}</li>
        <li><strong>Amount:</strong> {{.Amount}} {{.Currency}}</li>
        <li><strong>Status:</strong> {{.Status}}</li>
      </ul>
      <p>Please try again or contact our support team for assistance.</p>
      <p>Best regards,<br>{{.AppName}} Team</p>
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}. All rights reserved.</div>
  </div>
</body>
</html>`

const confirmationTextTemplate = `Payment Confirmation

Dear {{.RecipientName}},

Your payment has been successfully processed!

Payment Details:
  Transaction ID: {{.TransactionID}}
  Booking Reference: {{.BookingReference}}
  Amount: {{.Amount}} {{.Currency}}
  Payment Method: {{.PaymentMethod}}
  Status: {{.Status}}
  Date: {{.CompletedAt}}

Thank you for choosing {{.AppName}}!

Best regards,
{{.AppName}} Team
`

const failedTextTemplate = `Payment Failed

Dear {{.RecipientName}},

Unfortunately, your payment could not be processed.

Payment Details:
  Transaction ID: {{.TransactionID}}
  Booking Reference: {{.BookingReference}}
  Amount: {{.Amount}} {{.Currency}}
  Status: {{.Status}}

Please try again or contact our support team for assistance.

Best regards,
{{.AppName}} Team
`

// ------------------- SMTP Send -------------------

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if s.cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}
