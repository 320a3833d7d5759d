package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/korey-h/api-yamdb/pkg/utils"
)

func TestNewPicksLogSenderWithoutHost(t *testing.T) {
	s := New(utils.EmailConfig{From: "auth@yamdb.com"}, zap.NewNop())
	assert.IsType(t, &logSender{}, s)

	s = New(utils.EmailConfig{Host: "localhost", Port: 25, From: "auth@yamdb.com"}, zap.NewNop())
	assert.IsType(t, &smtpSender{}, s)
}

func TestLogSenderWritesMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLogSender("auth@yamdb.com", zap.New(core))

	err := s.Send(context.Background(), Message{
		To:      "bob@example.com",
		Subject: "e-mail confirmation",
		Body:    "confirmation_code: abc",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Email").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "auth@yamdb.com", fields["from"])
	assert.Equal(t, "bob@example.com", fields["to"])
	assert.Equal(t, "e-mail confirmation", fields["subject"])
	assert.Equal(t, "confirmation_code: abc", fields["body"])
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\r\nb\r\nc", normalizeNewlines("a\nb\r\nc"))
}

func TestSMTPSenderHonoursCancelledContext(t *testing.T) {
	s := NewSMTPSender(utils.EmailConfig{Host: "127.0.0.1", Port: 1, From: "x@y.z"}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}
