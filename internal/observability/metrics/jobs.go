package metrics

import (
	"time"

	obserrors "github.com/rosterd/rosterd/internal/observability/errors"
	"github.com/rosterd/rosterd/internal/observability/statsd"
)

// Result tag values shared by job, run, and reaper emissions.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// JobMetric captures one queue job lifecycle event. Err is consulted only
// for error results, where its classification becomes an error_class tag.
type JobMetric struct {
	JobType    string
	Transition string
	Result     string
	Duration   time.Duration
	Err        error
}

func (m JobMetric) tags() map[string]string {
	tags := map[string]string{
		"job_type":   m.JobType,
		"transition": m.Transition,
		"result":     m.Result,
	}
	if m.Err != nil && m.Result == ResultError {
		if class := obserrors.Classify(m.Err); class != "" {
			tags["error_class"] = class
		}
	}
	return tags
}

// EmitJobLifecycle emits standardised queue job lifecycle metrics.
func EmitJobLifecycle(sink statsd.Sink, in JobMetric) {
	if sink == nil {
		return
	}

	tags := in.tags()
	sink.Count("job.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("job.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags returns a shallow copy of a tag map so one emission cannot
// mutate the tags of another.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
