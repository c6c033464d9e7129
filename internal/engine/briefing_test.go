package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbotd/finbot/internal/config"
	"github.com/finbotd/finbot/internal/core"
)

func TestBriefingCycle_SendsAndRecordsMarker(t *testing.T) {
	deps := newTestDeps()
	id := uuidWithPrefix(1)
	deps.dir.addTenant(core.Tenant{ID: id}, bankSettings("a"))
	deps.ai.generated = func(uuid.UUID, string) string { return "good morning" }

	e := newTestEngine(deps, config.EngineConfig{})
	e.runBriefingCycle(context.Background(), monday8)

	require.Len(t, deps.notifier.sent, 1)
	assert.Contains(t, deps.notifier.sent[0], "good morning")

	s, err := deps.dir.GetSettings(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s.LastBriefingSent)
}

func TestBriefingCycle_AlreadySentTodayIsSkipped(t *testing.T) {
	deps := newTestDeps()
	deps.dir.addTenant(core.Tenant{ID: uuidWithPrefix(1)}, bankSettings("a"))
	deps.ai.generated = func(uuid.UUID, string) string { return "good morning" }

	e := newTestEngine(deps, config.EngineConfig{})
	e.runBriefingCycle(context.Background(), monday8)
	e.runBriefingCycle(context.Background(), monday8.Add(10*time.Minute))

	assert.Len(t, deps.notifier.sent, 1)
}

func TestBriefingCycle_EmptyModelOutputSkipsSending(t *testing.T) {
	deps := newTestDeps()
	deps.dir.addTenant(core.Tenant{ID: uuidWithPrefix(1)}, bankSettings("a"))
	deps.ai.generated = func(uuid.UUID, string) string { return "" }

	e := newTestEngine(deps, config.EngineConfig{})
	e.runBriefingCycle(context.Background(), monday8)

	assert.Empty(t, deps.notifier.sent)
}

func TestBriefingCycle_AIDisabledIsSkipped(t *testing.T) {
	deps := newTestDeps()
	s := bankSettings("a")
	s.AIEnabled = false
	deps.dir.addTenant(core.Tenant{ID: uuidWithPrefix(1)}, s)
	deps.ai.generated = func(uuid.UUID, string) string { return "good morning" }

	e := newTestEngine(deps, config.EngineConfig{})
	e.runBriefingCycle(context.Background(), monday8)

	assert.Empty(t, deps.notifier.sent)
}
