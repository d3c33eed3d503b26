package mail

import (
	"context"

	"go.uber.org/zap"
)

type consoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender logs messages instead of delivering them. Used in
// development when no Sendgrid key is configured.
func NewConsoleSender(logger *zap.Logger) Sender {
	return &consoleSender{logger: logger}
}

func (s *consoleSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("console mail",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("body", msg.Body),
	)
	return nil
}
