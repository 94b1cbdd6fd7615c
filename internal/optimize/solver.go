package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// SolveParams bound a single solver invocation.
type SolveParams struct {
	MaxRuntime time.Duration
	MIPGap     float64
}

// SolveParamsFromConfig maps an optimization config's solver limits.
func SolveParamsFromConfig(cfg model.OptimizationConfig) SolveParams {
	return SolveParams{
		MaxRuntime: time.Duration(cfg.MaxRuntimeSeconds) * time.Second,
		MIPGap:     cfg.MIPGap,
	}
}

// Result is the driver's terminal outcome. Status is always set; Assignments
// are populated only for optimal/feasible verdicts. Err carries the fault
// description when the solve itself went wrong.
type Result struct {
	Status         model.SolverStatus
	ObjectiveValue *float64
	RuntimeSeconds float64
	MIPGap         *float64
	Assignments    []model.SolutionInput
	Err            string
}

// Solver is the pluggable optimization back-end. Implementations report
// solver-side faults inside the Result rather than as Go errors; an error
// return is reserved for invalid input such as an unusable configuration.
type Solver interface {
	Solve(ctx context.Context, problem *Problem, params SolveParams) (*Result, error)
}

// HighsSolver runs the assignment MIP through the HiGHS back-end.
type HighsSolver struct{}

// NewHighsSolver returns a driver backed by HiGHS.
func NewHighsSolver() *HighsSolver {
	return &HighsSolver{}
}

// Solve formulates the problem and solves it within params.MaxRuntime,
// clamped to the context deadline when that is tighter. Assignments are read
// off every binary whose solved value rounds to one.
func (h *HighsSolver) Solve(ctx context.Context, problem *Problem, params SolveParams) (*Result, error) {
	started := time.Now()

	formulation, err := Formulate(problem)
	if err != nil {
		return nil, err
	}
	if len(formulation.Vars) == 0 {
		return emptyModelResult(problem, started), nil
	}
	if err := ctx.Err(); err != nil {
		return faultResult(started, fmt.Sprintf("solve aborted: %v", err)), nil
	}

	solver, err := mip.NewSolver(mip.Highs, formulation.Model)
	if err != nil {
		return faultResult(started, fmt.Sprintf("create solver: %v", err)), nil
	}

	options := mip.SolveOptions{
		Duration:  solveBudget(ctx, params.MaxRuntime),
		Verbosity: mip.Off,
		MIP: mip.MIPOptions{
			Gap: mip.GapOptions{Relative: params.MIPGap},
		},
	}
	solution, err := solver.Solve(options)
	if err != nil {
		return faultResult(started, fmt.Sprintf("solve: %v", err)), nil
	}

	return resultFromSolution(formulation, solution, started, params.MIPGap), nil
}

// solveBudget returns the configured runtime limit, shortened when the
// context's deadline leaves less than that.
func solveBudget(ctx context.Context, limit time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			return remaining
		}
	}
	return limit
}

// emptyModelResult settles a problem that produced no decision variables:
// outstanding demand makes it infeasible outright, otherwise there is nothing
// to schedule and the empty assignment is optimal.
func emptyModelResult(p *Problem, started time.Time) *Result {
	res := &Result{RuntimeSeconds: time.Since(started).Seconds()}
	if p.TotalDemand() > 0 {
		res.Status = model.SolverStatusInfeasible
		res.Err = "no employee is qualified and available for the demanded shifts"
		return res
	}
	res.Status = model.SolverStatusOptimal
	objective := 0.0
	gap := 0.0
	res.ObjectiveValue = &objective
	res.MIPGap = &gap
	return res
}

func faultResult(started time.Time, message string) *Result {
	return &Result{
		Status:         model.SolverStatusError,
		RuntimeSeconds: time.Since(started).Seconds(),
		Err:            message,
	}
}

// resultFromSolution maps the back-end verdict onto the run vocabulary and
// extracts the chosen assignments.
func resultFromSolution(f *Formulation, solution mip.Solution, started time.Time, configuredGap float64) *Result {
	res := &Result{RuntimeSeconds: time.Since(started).Seconds()}

	switch {
	case solution.IsOptimal():
		res.Status = model.SolverStatusOptimal
	case solution.IsSubOptimal():
		res.Status = model.SolverStatusFeasible
	case solution.IsInfeasible():
		res.Status = model.SolverStatusInfeasible
	case solution.IsUnbounded():
		res.Status = model.SolverStatusError
		res.Err = "model is unbounded"
	default:
		res.Status = model.SolverStatusNoSolutionFound
		res.Err = "solver reached its limits without a feasible assignment"
	}
	if !res.Status.Solved() {
		return res
	}

	objective := solution.ObjectiveValue()
	res.ObjectiveValue = &objective
	// HiGHS does not report the achieved gap: optimal means it closed, and a
	// sub-optimal accept is bounded by the configured relative gap.
	switch res.Status {
	case model.SolverStatusOptimal:
		gap := 0.0
		res.MIPGap = &gap
	case model.SolverStatusFeasible:
		gap := configuredGap
		res.MIPGap = &gap
	}

	if !solution.HasValues() {
		return res
	}
	for i := range f.Vars {
		v := &f.Vars[i]
		if solution.Value(v.Var) >= 0.5 {
			res.Assignments = append(res.Assignments, model.SolutionInput{
				PlannedShiftID: v.ShiftID,
				EmployeeID:     v.EmployeeID,
				RoleID:         v.RoleID,
				Score:          v.Score,
			})
		}
	}
	return res
}
