package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
)

type BackgroundTasks struct {
	ReversalUsecase domain.ReversalUsecase
}

func NewBackgroundTasks(reversalUC domain.ReversalUsecase) *BackgroundTasks {
	return &BackgroundTasks{ReversalUsecase: reversalUC}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startPendingGaugeRefresh(ctx)
}

// startPendingGaugeRefresh keeps the pending-reversals gauge warm for
// dashboards without waiting for a stats request to land.
func (bt *BackgroundTasks) startPendingGaugeRefresh(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			caller := domain.Caller{Role: domain.RoleAdmin}
			if _, err := bt.ReversalUsecase.GetStats(ctx, caller); err != nil {
				slog.Error("pending gauge refresh failed", "error", err.Error())
			}
		}
	}
}
