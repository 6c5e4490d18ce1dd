package setup

import (
	"fmt"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/config"
	"github.com/qualitrace/qa-reversal-service/internal/domain"
	publisher "github.com/qualitrace/qa-reversal-service/internal/infrastructure/kafka"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/logger"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/metrics"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/repository"
	"github.com/qualitrace/qa-reversal-service/internal/usecase/reversal"
	"github.com/qualitrace/qa-reversal-service/internal/usecase/scorecard"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config            *config.ReversalConfig
	DB                *gorm.DB
	ReversalPublisher *publisher.KafkaPublisher
	Repositories      *Repositories
	Metrics           *metrics.ReversalMetrics
}

type Repositories struct {
	ReversalRepo  domain.ReversalRepository
	ScorecardRepo domain.ScorecardRepository
	AuditRepo     domain.AuditRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	reversalPublisher, err := initReversalPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("reversal publisher: %w", err)
	}

	repos := &Repositories{
		ReversalRepo:  repository.NewDefaultReversalRepository(db),
		ScorecardRepo: repository.NewDefaultScorecardRepository(db),
		AuditRepo:     repository.NewDefaultAuditRepository(db),
	}

	return &Dependencies{
		Config:            cfg,
		DB:                db,
		ReversalPublisher: reversalPublisher,
		Repositories:      repos,
		Metrics:           metrics.NewReversalMetrics(),
	}, nil
}

func initReversalPublisher(cfg *config.ReversalConfig) (*publisher.KafkaPublisher, error) {
	kafkaConfig := publisher.KafkaConfig{
		Brokers:    []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Topic:      cfg.KafkaService.Topic,
		Username:   cfg.KafkaService.Username,
		Password:   cfg.KafkaService.Password,
		Mechanism:  cfg.KafkaService.Mechanism,
		TLSEnabled: cfg.KafkaService.TLSEnabled,
	}
	return publisher.NewKafkaPublisher(kafkaConfig)
}

func InitializeUsecase(deps *Dependencies) *reversal.DefaultReversalUsecase {
	locator := scorecard.NewLocator(deps.Repositories.ScorecardRepo)
	decisionLog := logger.NewPGDecisionEventLogger(deps.DB)

	return reversal.NewDefaultReversalUsecase(
		deps.Repositories.ReversalRepo,
		deps.Repositories.AuditRepo,
		locator,
		deps.ReversalPublisher,
		decisionLog,
		deps.Metrics,
		time.Duration(deps.Config.Workflow.PerTableTimeoutSeconds)*time.Second,
	)
}
