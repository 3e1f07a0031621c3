package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/pkg/clients/webhook"
)

// Service is the fire-and-forget notification trigger. Delivery runs on its
// own goroutine with its own deadline; a failure is logged and swallowed so
// it can never affect the write that triggered it.
type Service struct {
	client  webhook.Client
	enabled bool
	logger  *zap.Logger
}

// NewService wires the notifier. When disabled (or without a client) every
// Notify call is a no-op.
func NewService(client webhook.Client, enabled bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, enabled: enabled, logger: logger}
}

// Notify dispatches asynchronously and returns immediately.
func (s *Service) Notify(title, message string) {
	if !s.enabled || s.client == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.client.Send(ctx, title, message); err != nil {
			s.logger.Warn("notification delivery failed", zap.String("title", title), zap.Error(err))
		}
	}()
}
