package reversal

import (
	"context"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	publisher "github.com/qualitrace/qa-reversal-service/internal/infrastructure/kafka"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/logger"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/metrics"
	"github.com/qualitrace/qa-reversal-service/internal/usecase/scorecard"
)

const defaultPerTableTimeout = 5 * time.Second

type EventPublisher interface {
	PublishReversal(event publisher.ReversalEvent) error
}

type DecisionEventLogger interface {
	LogDecision(ctx context.Context, event logger.ReversalDecisionEvent) error
}

type DefaultReversalUsecase struct {
	reversalRepo domain.ReversalRepository
	auditRepo    domain.AuditRepository
	locator      *scorecard.Locator

	eventPublisher EventPublisher
	decisionLog    DecisionEventLogger
	metrics        *metrics.ReversalMetrics

	perTableTimeout time.Duration
	now             func() time.Time
}

func NewDefaultReversalUsecase(
	reversalRepo domain.ReversalRepository,
	auditRepo domain.AuditRepository,
	locator *scorecard.Locator,
	eventPublisher EventPublisher,
	decisionLog DecisionEventLogger,
	reversalMetrics *metrics.ReversalMetrics,
	perTableTimeout time.Duration,
) *DefaultReversalUsecase {
	if perTableTimeout <= 0 {
		perTableTimeout = defaultPerTableTimeout
	}
	return &DefaultReversalUsecase{
		reversalRepo:    reversalRepo,
		auditRepo:       auditRepo,
		locator:         locator,
		eventPublisher:  eventPublisher,
		decisionLog:     decisionLog,
		metrics:         reversalMetrics,
		perTableTimeout: perTableTimeout,
		now:             time.Now,
	}
}

var _ domain.ReversalUsecase = (*DefaultReversalUsecase)(nil)
