package metrics

import "time"

// ResultLabel enumerates stage and page result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks. Implementations must be safe for
// concurrent use; page results are reported from render workers.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncPageResult(result ResultLabel)
	SetPagesTotal(n int)
	ObserveRequest(route string, status int, d time.Duration)
	IncRebuildTrigger(source string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)   {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)           {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)            {}
func (NoopRecorder) IncPageResult(ResultLabel)                    {}
func (NoopRecorder) SetPagesTotal(int)                            {}
func (NoopRecorder) ObserveRequest(string, int, time.Duration)    {}
func (NoopRecorder) IncRebuildTrigger(string)                     {}
