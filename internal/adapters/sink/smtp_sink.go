package sink

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/spam-sorter/internal/report"
	"go.uber.org/zap"
)

// SMTPOptions configures report delivery by mail
type SMTPOptions struct {
	Address  string
	From     string
	To       []string
	Username string
	Password string
}

// SMTPSink mails the text reports
type SMTPSink struct {
	opts   SMTPOptions
	logger *zap.Logger
}

// NewSMTPSink creates a mail sink. PLAIN auth is used when a username is set.
func NewSMTPSink(opts SMTPOptions, logger *zap.Logger) (*SMTPSink, error) {
	if len(opts.To) == 0 {
		return nil, fmt.Errorf("smtp report sink needs at least one recipient")
	}
	return &SMTPSink{opts: opts, logger: logger}, nil
}

// Emit sends r as a plain text message
func (s *SMTPSink) Emit(ctx context.Context, r *report.Report) error {
	msg, err := s.compose(r)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.opts.Address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.opts.Address, err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if s.opts.Username != "" {
		auth := sasl.NewPlainClient("", s.opts.Username, s.opts.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.Mail(s.opts.From, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, rcpt := range s.opts.To {
		if err := c.Rcpt(rcpt, nil); err != nil {
			s.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", rcpt),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send report data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message is already accepted
		s.logger.Warn("QUIT command failed", zap.Error(err))
	}

	s.logger.Info("Mailed report", zap.Strings("to", s.opts.To), zap.String("run_id", r.RunID))
	return nil
}

func (s *SMTPSink) compose(r *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	subject := fmt.Sprintf("Classification report: %d spam of %d", r.Summary.Spam, r.Summary.Total)
	if r.Canceled {
		subject += " (canceled)"
	}
	fmt.Fprintf(&buf, "From: %s\r\n", s.opts.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(s.opts.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", r.GeneratedAt.Format(time.RFC1123Z))
	if r.RunID != "" {
		fmt.Fprintf(&buf, "X-Spam-Sorter-Run: %s\r\n", r.RunID)
	}
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")

	var body bytes.Buffer
	if err := report.WriteText(&body, r); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	buf.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return buf.Bytes(), nil
}
