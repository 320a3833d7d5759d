package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/pkg/utils"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender when a host is configured and a logging sender otherwise.
func New(config utils.EmailConfig, log *zap.Logger) Sender {
	if config.Host == "" {
		return NewLogSender(config.From, log)
	}
	return NewSMTPSender(config, log)
}

type smtpSender struct {
	addr string
	from string
	auth smtp.Auth
	log  *zap.Logger
}

func NewSMTPSender(config utils.EmailConfig, log *zap.Logger) Sender {
	s := &smtpSender{
		addr: net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		from: config.From,
		log:  log.With(zap.String("mailer", "smtp")),
	}
	if config.User != "" {
		s.auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}
	return s
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, msg.To, msg.Subject, normalizeNewlines(msg.Body)))

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, raw); err != nil {
		s.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", msg.To),
			zap.String("smtp_addr", s.addr),
		)
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	s.log.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

type logSender struct {
	from string
	log  *zap.Logger
}

// NewLogSender writes messages to the log instead of delivering them.
func NewLogSender(from string, log *zap.Logger) Sender {
	return &logSender{
		from: from,
		log:  log.With(zap.String("mailer", "log")),
	}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email",
		zap.String("from", s.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
