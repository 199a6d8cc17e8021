package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/utils"
	"go.uber.org/zap"
)

const shutdownGrace = 5 * time.Second

// SMTPOptions configures the capture window of an SMTP intake
type SMTPOptions struct {
	ListenAddress   string
	Domain          string
	Window          time.Duration
	MaxMessages     int
	MaxMessageBytes int64
	MaxAddress      int
}

// SMTPSource accepts mail over SMTP for a bounded window and turns every
// delivered message into a record
type SMTPSource struct {
	opts      SMTPOptions
	processor *utils.TextProcessor
	logger    *zap.Logger
}

// NewSMTPSource creates an SMTP intake source. Capture ends when the window
// elapses or MaxMessages messages arrived, whichever comes first. With
// neither set, capture runs until the context is done.
func NewSMTPSource(opts SMTPOptions, processor *utils.TextProcessor, logger *zap.Logger) *SMTPSource {
	if opts.Domain == "" {
		opts.Domain = "localhost"
	}
	return &SMTPSource{opts: opts, processor: processor, logger: logger}
}

// Load listens on the configured address and captures messages
func (s *SMTPSource) Load(ctx context.Context) ([]core.Record, error) {
	l, err := net.Listen("tcp", s.opts.ListenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.opts.ListenAddress, err)
	}
	return s.Serve(ctx, l)
}

// Serve captures messages from l. The listener is closed on return.
func (s *SMTPSource) Serve(ctx context.Context, l net.Listener) ([]core.Record, error) {
	be := &smtpBackend{
		max:    s.opts.MaxMessages,
		full:   make(chan struct{}),
		logger: s.logger,
	}

	server := smtp.NewServer(be)
	server.Domain = s.opts.Domain
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	if s.opts.MaxMessageBytes > 0 {
		server.MaxMessageBytes = s.opts.MaxMessageBytes
	}
	server.MaxRecipients = 50

	s.logger.Info("SMTP intake starting",
		zap.String("address", l.Addr().String()),
		zap.Duration("window", s.opts.Window),
		zap.Int("max_messages", s.opts.MaxMessages))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(l)
	}()

	var window <-chan time.Time
	if s.opts.Window > 0 {
		timer := time.NewTimer(s.opts.Window)
		defer timer.Stop()
		window = timer.C
	}

	var serveErr error
	served := false
	select {
	case <-ctx.Done():
		serveErr = ctx.Err()
	case <-window:
	case <-be.full:
	case err := <-errCh:
		served = true
		if err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			serveErr = fmt.Errorf("SMTP server error: %w", err)
		}
	}

	if serveErr != nil {
		if err := server.Close(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			s.logger.Warn("Failed to close SMTP intake", zap.Error(err))
		}
	} else {
		// let clients finish the transaction they are in
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			s.logger.Warn("SMTP intake did not drain, closing", zap.Error(err))
			server.Close()
		}
		cancel()
	}
	// Serve may not have registered l yet when Close ran
	_ = l.Close()
	if !served {
		<-errCh
	}
	if serveErr != nil {
		return nil, serveErr
	}

	records := be.drain()
	s.logger.Info("SMTP intake closed", zap.Int("messages", len(records)))
	return finish(records, s.opts.MaxAddress, s.processor, s.logger, "smtp intake")
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	mu      sync.Mutex
	records []core.Record
	closed  bool
	max     int
	full    chan struct{}
	logger  *zap.Logger
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{backend: b}, nil
}

// add stores a record, reporting false once capture is over
func (b *smtpBackend) add(rec core.Record) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	b.records = append(b.records, rec)
	if b.max > 0 && len(b.records) >= b.max {
		b.closed = true
		close(b.full)
	}
	return true
}

func (b *smtpBackend) drain() []core.Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return b.records
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	backend *smtpBackend
	sender  string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts every recipient
func (s *smtpSession) Rcpt(_ string, _ *smtp.RcptOptions) error {
	return nil
}

// Data parses the message and stores it as a record
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.backend.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.backend.logger.Error("Failed to parse email message", zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Malformed message",
		}
	}

	address, content, err := recordFromMessage(msg, s.sender)
	if err != nil {
		s.backend.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	if !s.backend.add(core.Record{Address: address, Content: content}) {
		return &smtp.SMTPError{
			Code:         452,
			EnhancedCode: smtp.EnhancedCode{4, 3, 1},
			Message:      "Capture window closed",
		}
	}

	s.backend.logger.Debug("Captured message", zap.String("from", address), zap.Int("size", len(rawData)))
	return nil
}
