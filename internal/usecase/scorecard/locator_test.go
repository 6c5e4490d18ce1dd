package scorecard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	mu         sync.Mutex
	scorecards []*domain.Scorecard
	calls      int
	err        error
}

func (s *stubCatalog) ListActive(_ context.Context) ([]*domain.Scorecard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scorecards, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{scorecards: []*domain.Scorecard{
		{ID: "sc-voice", DisplayName: "Voice QA", TableName: "voice_audits", IsActive: true, PassingThreshold: 80},
		{ID: "sc-chat", DisplayName: "Chat QA", TableName: "chat_audits", IsActive: true, PassingThreshold: 85},
	}}
}

func TestLocatorResolveTable(t *testing.T) {
	locator := NewLocator(testCatalog())

	table, err := locator.ResolveTable(context.Background(), "sc-voice")
	require.NoError(t, err)
	assert.Equal(t, "voice_audits", table)

	sc, err := locator.ByTable(context.Background(), "chat_audits")
	require.NoError(t, err)
	assert.Equal(t, "sc-chat", sc.ID)
}

func TestLocatorUnknownScorecardIsNotFound(t *testing.T) {
	locator := NewLocator(testCatalog())

	_, err := locator.ResolveTable(context.Background(), "sc-retired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = locator.ByTable(context.Background(), "retired_audits")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLocatorLoadsCatalogOnce(t *testing.T) {
	catalog := testCatalog()
	locator := NewLocator(catalog)

	for i := 0; i < 5; i++ {
		_, err := locator.Active(context.Background())
		require.NoError(t, err)
		_, err = locator.ByID(context.Background(), "sc-voice")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, catalog.calls)
}

func TestLocatorCatalogFailureIsNotCached(t *testing.T) {
	catalog := testCatalog()
	catalog.err = errors.New("connection refused")
	locator := NewLocator(catalog)

	_, err := locator.Active(context.Background())
	require.Error(t, err)

	catalog.mu.Lock()
	catalog.err = nil
	catalog.mu.Unlock()

	active, err := locator.Active(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
