package assistant

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/metrics"
	"go.uber.org/zap"
)

const MaxMessageLength = 2000

var (
	ErrMessageRequired = errors.New("message is required")
	ErrMessageTooLong  = errors.New("message is too long")
	ErrRateLimited     = errors.New("too many assistant requests")
	ErrUnavailable     = errors.New("assistant is unavailable")
)

// Service validates, rate-limits and forwards chat requests
type Service struct {
	provider Provider
	limiter  *UserLimiter
}

// NewService uses provider, or the placeholder when provider is nil
func NewService(provider Provider, limiter *UserLimiter) *Service {
	if provider == nil {
		provider = Placeholder{}
	}
	if limiter == nil {
		limiter = NewUserLimiter(3*time.Second, 3)
	}
	return &Service{provider: provider, limiter: limiter}
}

// Provider returns the active provider name
func (s *Service) Provider() string {
	return s.provider.Name()
}

// Chat answers message for userID
func (s *Service) Chat(ctx context.Context, userID, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrMessageRequired
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return Reply{}, ErrMessageTooLong
	}

	m := metrics.Get()
	if !s.limiter.Allow(userID) {
		m.AssistantCallsTotal.WithLabelValues(s.provider.Name(), "rate_limited").Inc()
		return Reply{}, ErrRateLimited
	}

	reply, err := s.provider.Reply(ctx, Request{
		UserID:       userID,
		SystemPrompt: SystemPrompt,
		Message:      message,
	})
	if err != nil {
		m.AssistantCallsTotal.WithLabelValues(s.provider.Name(), "error").Inc()
		logger.Log.Warn("Assistant provider failed",
			logger.WithUserID(userID),
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return Reply{}, errors.Join(ErrUnavailable, err)
	}

	m.AssistantCallsTotal.WithLabelValues(s.provider.Name(), "ok").Inc()
	return reply, nil
}

// RunSweeper drops idle rate-limit buckets every interval until ctx ends
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Sweep(); n > 0 {
				logger.Log.Debug("Swept idle assistant limiters", zap.Int("count", n))
			}
		}
	}
}
