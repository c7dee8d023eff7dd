package pipeline

import (
	"time"
)

// Ingestion stages, in the order an upload passes through them.
const (
	StageStore    = "store"
	StageParse    = "parse"
	StageAnalyze  = "analyze"
	StageFinalize = "finalize"
)

// StageMetrics records how one stage of an ingest went.
type StageMetrics struct {
	Name     string
	Start    time.Time
	Duration time.Duration
	Records  int
	Status   string // "running", "completed", "failed"
}

// IngestTracker times the stages of a single upload. It is not safe for
// concurrent use; each Ingest call owns one.
type IngestTracker struct {
	stages []StageMetrics
	now    func() time.Time
}

func newIngestTracker(now func() time.Time) *IngestTracker {
	if now == nil {
		now = time.Now
	}
	return &IngestTracker{now: now}
}

// StartStage opens a stage. A stage left running is closed by the next StartStage.
func (t *IngestTracker) StartStage(name string) {
	t.closeRunning("completed", 0)
	t.stages = append(t.stages, StageMetrics{Name: name, Start: t.now(), Status: "running"})
}

// EndStage closes the running stage, recording how many rows it handled.
func (t *IngestTracker) EndStage(records int) {
	t.closeRunning("completed", records)
}

// FailStage closes the running stage as failed.
func (t *IngestTracker) FailStage() {
	t.closeRunning("failed", 0)
}

func (t *IngestTracker) closeRunning(status string, records int) {
	if len(t.stages) == 0 {
		return
	}
	s := &t.stages[len(t.stages)-1]
	if s.Status != "running" {
		return
	}
	s.Duration = t.now().Sub(s.Start)
	s.Records = records
	s.Status = status
}

// Stages returns a copy of the recorded stages.
func (t *IngestTracker) Stages() []StageMetrics {
	out := make([]StageMetrics, len(t.stages))
	copy(out, t.stages)
	return out
}

// Total is the time from the first stage start to the end of the last closed stage.
func (t *IngestTracker) Total() time.Duration {
	if len(t.stages) == 0 {
		return 0
	}
	last := t.stages[len(t.stages)-1]
	return last.Start.Add(last.Duration).Sub(t.stages[0].Start)
}

// LogFields flattens the stage durations into logger key/value pairs.
func (t *IngestTracker) LogFields() []interface{} {
	fields := make([]interface{}, 0, 2*len(t.stages)+2)
	for _, s := range t.stages {
		fields = append(fields, s.Name+"_ms", s.Duration.Milliseconds())
	}
	return append(fields, "duration", t.Total())
}
