package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbotd/finbot/internal/config"
	"github.com/finbotd/finbot/internal/core"
)

// Monday 2025-06-02.
var monday8 = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func weeklySettings() *core.Settings {
	s := bankSettings("w")
	s.ReportDay = int(time.Monday)
	s.ReportHour = 8
	return s
}

func TestWeeklyCycle_DueTenantGetsReportAndMarker(t *testing.T) {
	deps := newTestDeps()
	id := uuidWithPrefix(1)
	deps.dir.addTenant(core.Tenant{ID: id}, weeklySettings())

	e := newTestEngine(deps, config.EngineConfig{})
	e.runWeeklyCycle(context.Background(), monday8)

	assert.Equal(t, []uuid.UUID{id}, deps.reporter.sent)

	s, err := deps.dir.GetSettings(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s.LastWeeklyReportSent)
	assert.True(t, s.LastWeeklyReportSent.Equal(monday8))
}

func TestWeeklyCycle_SecondPollSameDayDoesNotResend(t *testing.T) {
	deps := newTestDeps()
	id := uuidWithPrefix(1)
	deps.dir.addTenant(core.Tenant{ID: id}, weeklySettings())

	e := newTestEngine(deps, config.EngineConfig{})
	e.runWeeklyCycle(context.Background(), monday8)
	e.runWeeklyCycle(context.Background(), monday8.Add(3*time.Minute))

	assert.Len(t, deps.reporter.sent, 1, "dedup by calendar day")
}

func TestWeeklyCycle_WrongSlotIsSkipped(t *testing.T) {
	deps := newTestDeps()
	deps.dir.addTenant(core.Tenant{ID: uuidWithPrefix(1)}, weeklySettings())

	e := newTestEngine(deps, config.EngineConfig{})
	e.runWeeklyCycle(context.Background(), monday8.Add(2*time.Hour))

	assert.Empty(t, deps.reporter.sent)
}

func TestWeeklyCycle_ReportFailureLeavesMarkerUnset(t *testing.T) {
	deps := newTestDeps()
	id := uuidWithPrefix(1)
	deps.dir.addTenant(core.Tenant{ID: id}, weeklySettings())
	deps.reporter.err = errors.New("aggregator timeout")

	e := newTestEngine(deps, config.EngineConfig{})
	e.runWeeklyCycle(context.Background(), monday8)

	s, err := deps.dir.GetSettings(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, s.LastWeeklyReportSent, "failed send can retry on the next poll")
}

func TestWeeklyCycle_PerTenantSchedulesAreIndependent(t *testing.T) {
	deps := newTestDeps()
	early := uuidWithPrefix(1)
	late := uuidWithPrefix(2)

	deps.dir.addTenant(core.Tenant{ID: early}, weeklySettings())

	lateSettings := weeklySettings()
	lateSettings.ReportHour = 19
	deps.dir.addTenant(core.Tenant{ID: late}, lateSettings)

	e := newTestEngine(deps, config.EngineConfig{})
	e.runWeeklyCycle(context.Background(), monday8)

	assert.Equal(t, []uuid.UUID{early}, deps.reporter.sent)
}
