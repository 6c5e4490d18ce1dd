package scorecard

import (
	"context"
	"fmt"
	"sync"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
)

// Locator resolves which physical audit table holds a scorecard's audits.
// The active catalog is immutable reference data, so it is loaded once and
// cached for the lifetime of the process.
type Locator struct {
	catalog domain.ScorecardRepository

	mu      sync.RWMutex
	loaded  bool
	byID    map[string]*domain.Scorecard
	byTable map[string]*domain.Scorecard
	active  []*domain.Scorecard
}

func NewLocator(catalog domain.ScorecardRepository) *Locator {
	return &Locator{catalog: catalog}
}

func (l *Locator) load(ctx context.Context) error {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return nil
	}

	scorecards, err := l.catalog.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("loading scorecard catalog: %w", err)
	}
	l.byID = make(map[string]*domain.Scorecard, len(scorecards))
	l.byTable = make(map[string]*domain.Scorecard, len(scorecards))
	l.active = scorecards
	for _, sc := range scorecards {
		l.byID[sc.ID] = sc
		l.byTable[sc.TableName] = sc
	}
	l.loaded = true
	return nil
}

// ResolveTable maps a scorecard id to its audit table. ErrNotFound here is a
// soft signal: callers surface the dispute with reduced context instead of
// failing.
func (l *Locator) ResolveTable(ctx context.Context, scorecardID string) (string, error) {
	sc, err := l.ByID(ctx, scorecardID)
	if err != nil {
		return "", err
	}
	return sc.TableName, nil
}

func (l *Locator) ByID(ctx context.Context, scorecardID string) (*domain.Scorecard, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	sc, ok := l.byID[scorecardID]
	if !ok {
		return nil, fmt.Errorf("scorecard %s: %w", scorecardID, domain.ErrNotFound)
	}
	return sc, nil
}

func (l *Locator) ByTable(ctx context.Context, table string) (*domain.Scorecard, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	sc, ok := l.byTable[table]
	if !ok {
		return nil, fmt.Errorf("scorecard table %s: %w", table, domain.ErrNotFound)
	}
	return sc, nil
}

func (l *Locator) Active(ctx context.Context) ([]*domain.Scorecard, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active, nil
}
