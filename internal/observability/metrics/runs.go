package metrics

import (
	"time"

	"github.com/rosterd/rosterd/internal/observability/statsd"
)

// RunMetric captures one scheduling run lifecycle event.
type RunMetric struct {
	Transition    string
	SolverStatus  string
	Result        string
	Duration      time.Duration
	Assignments   int
	SolverSeconds float64
	MIPGap        *float64
}

// EmitRunLifecycle emits standardised run lifecycle metrics: a transition
// counter, the end-to-end wall clock, and distributions of what the solver
// reported. The histogram emissions are conditional because triggered and
// failed transitions have no solver outcome to record.
func EmitRunLifecycle(sink statsd.Sink, in RunMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"transition": in.Transition,
		"result":     in.Result,
	}
	if in.SolverStatus != "" {
		tags["solver_status"] = in.SolverStatus
	}

	sink.Count("run.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("run.duration", in.Duration, CloneTags(tags))
	}
	if in.Assignments > 0 {
		sink.Histogram("run.assignments", float64(in.Assignments), CloneTags(tags))
	}
	if in.SolverSeconds > 0 {
		sink.Histogram("run.solver_runtime", in.SolverSeconds, CloneTags(tags))
	}
	if in.MIPGap != nil {
		sink.Histogram("run.mip_gap", *in.MIPGap, CloneTags(tags))
	}
}
