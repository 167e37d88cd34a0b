package email

import (
	"errors"
	"net"
	"net/smtp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(t *testing.T, cfg SMTPConfig) (*EmailServiceImpl, *[]capturedMail) {
	t.Helper()
	svc := NewEmailService(cfg, zerolog.Nop())
	sent := &[]capturedMail{}
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return svc, sent
}

var testConfig = SMTPConfig{
	Host: "smtp.example.com", Port: 587, Username: "u", Password: "p",
	FromName: "ScholarHub", FromEmail: "no-reply@scholarhub.dev",
}

func TestStatusEmailIsRenderedAndEscaped(t *testing.T) {
	svc, sent := newTestService(t, testConfig)

	err := svc.SendApplicationStatusEmail("jane@example.com", "Jane", "Global <Excellence>", "completed", "Well done")
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, []string{"jane@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "From: ScholarHub <no-reply@scholarhub.dev>\r\n")
	assert.Contains(t, mail.msg, "Global &lt;Excellence&gt;")
	assert.Contains(t, mail.msg, "<strong>completed</strong>")
	assert.Contains(t, mail.msg, "Moderator feedback: Well done")
}

func TestReceiptEmailFormatsAmount(t *testing.T) {
	svc, sent := newTestService(t, testConfig)

	require.NoError(t, svc.SendPaymentReceiptEmail("jane@example.com", "Jane", "Global", 50, "usd"))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "50.00 USD")
}

func TestUnconfiguredSMTPSkipsDelivery(t *testing.T) {
	svc, sent := newTestService(t, SMTPConfig{})

	require.NoError(t, svc.SendApplicationStatusEmail("jane@example.com", "Jane", "Global", "rejected", ""))
	assert.Empty(t, *sent)
}

func TestSendFailureIsWrapped(t *testing.T) {
	svc := NewEmailService(testConfig, zerolog.Nop())
	boom := errors.New("connection refused")
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	err := svc.SendApplicationStatusEmail("jane@example.com", "Jane", "Global", "rejected", "")
	assert.ErrorIs(t, err, boom)
}

func TestSilentServerTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// accept and never send the greeting
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	cfg := testConfig
	cfg.Host = "127.0.0.1"
	cfg.Port = addr.Port
	cfg.Timeout = 200 * time.Millisecond
	svc := NewEmailService(cfg, zerolog.Nop())

	start := time.Now()
	err = svc.SendApplicationStatusEmail("jane@example.com", "Jane", "Global", "rejected", "")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDefaultTimeout(t *testing.T) {
	svc := NewEmailService(testConfig, zerolog.Nop())
	assert.Equal(t, DefaultTimeout, svc.config.Timeout)
}
