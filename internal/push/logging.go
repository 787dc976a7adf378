package push

import (
	"context"

	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/sirupsen/logrus"
)

// LoggingTransport stands in for FCM when no credentials are configured:
// it logs every send and reports full success. Useful in development and as
// the default for local runs.
type LoggingTransport struct{}

// NewLoggingTransport creates the dry-run transport.
func NewLoggingTransport() *LoggingTransport {
	return &LoggingTransport{}
}

// SendMulticast logs the send and succeeds for every token.
func (t *LoggingTransport) SendMulticast(ctx context.Context, msg services.MulticastMessage) (*services.MulticastResult, error) {
	logger.Log.WithFields(logrus.Fields{
		"tokens": len(msg.Tokens),
		"title":  msg.Title,
	}).Info("Push send (dry-run transport)")

	results := make([]services.SendResult, len(msg.Tokens))
	for i := range results {
		results[i] = services.SendResult{Success: true}
	}
	return &services.MulticastResult{
		SuccessCount: len(msg.Tokens),
		Results:      results,
	}, nil
}
