package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

// EmailService sends the transactional mails of the application workflow
type EmailService interface {
	SendApplicationStatusEmail(toEmail, toName, scholarshipName, status, feedback string) error
	SendPaymentReceiptEmail(toEmail, toName, scholarshipName string, amount float64, currency string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	// Timeout bounds dialing and the whole SMTP conversation
	Timeout time.Duration
}

// DefaultTimeout applies when SMTPConfig.Timeout is zero
const DefaultTimeout = 10 * time.Second

// sendFunc has the signature of smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, lgr zerolog.Logger) *EmailServiceImpl {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	s := &EmailServiceImpl{
		config: config,
		logger: logger.Component(lgr, "email"),
	}
	s.send = s.sendSMTP
	return s
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

var statusTemplate = template.Must(template.New("status").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Application update</h2>
		<p>Hello {{.Name}},</p>
		<p>Your application for <strong>{{.Scholarship}}</strong> is now <strong>{{.Status}}</strong>.</p>
		{{if .Feedback}}<p>Moderator feedback: {{.Feedback}}</p>{{end}}
		<p>Best regards,<br>The ScholarHub Team</p>
	</div>
</body>
</html>`))

var receiptTemplate = template.Must(template.New("receipt").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Payment received</h2>
		<p>Hello {{.Name}},</p>
		<p>We received your application fee of <strong>{{.Amount}} {{.Currency}}</strong> for <strong>{{.Scholarship}}</strong>.</p>
		<p>Your application is pending review.</p>
		<p>Best regards,<br>The ScholarHub Team</p>
	</div>
</body>
</html>`))

// SendApplicationStatusEmail tells an applicant that a moderator changed their application
func (s *EmailServiceImpl) SendApplicationStatusEmail(toEmail, toName, scholarshipName, status, feedback string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Str("status", status).Msg("SMTP not configured - status email not sent")
		return nil
	}

	var body bytes.Buffer
	if err := statusTemplate.Execute(&body, map[string]string{
		"Name": toName, "Scholarship": scholarshipName, "Status": status, "Feedback": feedback,
	}); err != nil {
		return fmt.Errorf("failed to render status email: %w", err)
	}
	return s.sendHTMLEmail(toEmail, "Your scholarship application was updated", body.String())
}

// SendPaymentReceiptEmail confirms a reconciled application fee
func (s *EmailServiceImpl) SendPaymentReceiptEmail(toEmail, toName, scholarshipName string, amount float64, currency string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Str("scholarship", scholarshipName).Msg("SMTP not configured - payment receipt not sent")
		return nil
	}

	var body bytes.Buffer
	if err := receiptTemplate.Execute(&body, map[string]string{
		"Name":        toName,
		"Scholarship": scholarshipName,
		"Amount":      strconv.FormatFloat(amount, 'f', 2, 64),
		"Currency":    strings.ToUpper(currency),
	}); err != nil {
		return fmt.Errorf("failed to render receipt email: %w", err)
	}
	return s.sendHTMLEmail(toEmail, "Application fee received", body.String())
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	msg := buildMessage(s.fromHeader(), toEmail, subject, htmlBody)
	if err := s.send(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		s.logger.Error().Err(err).Str("server", addr).Str("toEmail", toEmail).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailServiceImpl) fromHeader() string {
	if s.config.FromName == "" {
		return s.config.FromEmail
	}
	return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
}

func (s *EmailServiceImpl) dial(addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: s.config.Timeout}
	if s.config.UseTLS {
		return tls.DialWithDialer(dialer, "tcp", addr, s.tlsConfig())
	}
	return dialer.Dial("tcp", addr)
}

func (s *EmailServiceImpl) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: s.config.Host, MinVersion: tls.VersionTLS12}
}

// sendSMTP delivers msg over one connection that must finish within
// config.Timeout. Port 465 style servers get implicit TLS, others STARTTLS
// when offered.
func (s *EmailServiceImpl) sendSMTP(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := s.dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(s.config.Timeout)); err != nil {
		return fmt.Errorf("failed to set SMTP deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if !s.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.tlsConfig()); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("SMTP authentication failed: %w", err)
			}
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish email message: %w", err)
	}
	return client.Quit()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
