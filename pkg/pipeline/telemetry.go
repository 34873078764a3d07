package pipeline

import "time"

// Stage names reported in response metadata.
const (
	StageInputGuard = "input_guard"
	StageCache      = "cache"
	StageAnalysis   = "analysis"
	StageRetrieval  = "retrieval"
	StageRanking    = "ranking"
	StagePrompt     = "prompt"
	StageLLM        = "llm"
	StageFormat     = "format"
)

// telemetry accumulates per-stage wall time for one request. Not safe
// for concurrent use; each request owns its own instance.
type telemetry struct {
	started  time.Time
	timings  map[string]time.Duration
	degraded []string
}

func newTelemetry() *telemetry {
	return &telemetry{
		started: time.Now(),
		timings: make(map[string]time.Duration),
	}
}

// measure runs fn and records its duration under the stage name.
func (t *telemetry) measure(stage string, fn func()) {
	start := time.Now()
	fn()
	t.timings[stage] += time.Since(start)
}

func (t *telemetry) markDegraded(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		found := false
		for _, existing := range t.degraded {
			if existing == name {
				found = true
				break
			}
		}
		if !found {
			t.degraded = append(t.degraded, name)
		}
	}
}

// Meta is the observability block returned with every response.
type Meta struct {
	Model          string           `json:"model,omitempty"`
	CorrelationID  string           `json:"correlationId"`
	TotalMs        int64            `json:"totalMs"`
	StageTimingsMs map[string]int64 `json:"stageTimingsMs,omitempty"`
	Degraded       []string         `json:"degraded,omitempty"`
}

func (t *telemetry) meta(model, correlationID string) Meta {
	timings := make(map[string]int64, len(t.timings))
	for stage, d := range t.timings {
		timings[stage] = d.Milliseconds()
	}
	return Meta{
		Model:          model,
		CorrelationID:  correlationID,
		TotalMs:        time.Since(t.started).Milliseconds(),
		StageTimingsMs: timings,
		Degraded:       t.degraded,
	}
}
