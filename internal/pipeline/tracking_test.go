package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestTrackerStages(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	tracker := newIngestTracker(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 10 * time.Millisecond)
	})

	tracker.StartStage(StageStore)
	tracker.EndStage(0)
	tracker.StartStage(StageParse)
	tracker.EndStage(4)
	tracker.StartStage(StageAnalyze)
	tracker.FailStage()

	stages := tracker.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, StageStore, stages[0].Name)
	assert.Equal(t, "completed", stages[0].Status)
	assert.Equal(t, 10*time.Millisecond, stages[0].Duration)
	assert.Equal(t, 4, stages[1].Records)
	assert.Equal(t, "failed", stages[2].Status)
	assert.Equal(t, 50*time.Millisecond, tracker.Total())

	fields := tracker.LogFields()
	assert.Equal(t, []interface{}{
		"store_ms", int64(10),
		"parse_ms", int64(10),
		"analyze_ms", int64(10),
		"duration", 50 * time.Millisecond,
	}, fields)
}

func TestIngestTrackerClosesRunningStage(t *testing.T) {
	tracker := newIngestTracker(nil)
	tracker.StartStage(StageParse)
	tracker.StartStage(StageAnalyze)

	stages := tracker.Stages()
	require.Len(t, stages, 2)
	assert.Equal(t, "completed", stages[0].Status)
	assert.Equal(t, "running", stages[1].Status)
}

func TestIngestTrackerEmpty(t *testing.T) {
	tracker := newIngestTracker(nil)
	tracker.EndStage(3)
	assert.Empty(t, tracker.Stages())
	assert.Zero(t, tracker.Total())
}
