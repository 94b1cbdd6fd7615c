package optimize

import (
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// AssignmentVar ties one binary decision variable to the assignment triple it
// encodes. Score is the preference value the variable carries into solutions.
type AssignmentVar struct {
	EmployeeID string
	ShiftID    string
	RoleID     string
	Score      float64
	Var        mip.Bool
}

// FormulationStats counts what the formulator emitted, for logging and tests.
type FormulationStats struct {
	DemandConstraints     int
	SingleAssignmentRows  int
	ShiftPairRows         int
	WeeklyCeilingRows     int
	WeeklyFloorRows       int
	ConsecutiveDayWindows int
	SlackVars             int
	FairnessVars          int
}

// Formulation is the built model plus the bookkeeping needed to read a
// solution back out of it.
type Formulation struct {
	Model mip.Model
	Vars  []AssignmentVar
	Stats FormulationStats
}

// Formulate builds the assignment MIP over x[e,s,r] binaries. Variables exist
// only where the employee holds the demanded role and is available for the
// shift; availability therefore needs no explicit constraint rows.
//
// Objective weights come verbatim from the run's configuration; a bundle with
// every weight zero cannot rank solutions and is rejected as input error.
func Formulate(p *Problem) (*Formulation, error) {
	cfg := p.Config
	if cfg.WeightPreferences == 0 && cfg.WeightCoverage == 0 && cfg.WeightFairness == 0 && cfg.WeightCost == 0 {
		return nil, fmt.Errorf("optimization config %q has all-zero objective weights", cfg.Name)
	}

	f := &formulator{
		problem:     p,
		model:       mip.NewModel(),
		byShiftRole: make(map[shiftRoleKey][]int),
		byEmpShift:  make(map[empShiftKey][]int),
		byEmployee:  make(map[string][]int),
	}
	f.model.Objective().SetMaximize()

	f.createVariables()
	f.demandConstraints()
	f.singleAssignmentConstraints()
	f.shiftPairConstraints()
	f.weeklyCeilings()
	f.weeklyFloors()
	f.consecutiveDayLimits()
	f.objectiveTerms()

	return &Formulation{Model: f.model, Vars: f.vars, Stats: f.stats}, nil
}

type shiftRoleKey struct {
	ShiftID string
	RoleID  string
}

type empShiftKey struct {
	EmployeeID string
	ShiftID    string
}

// formulator accumulates the model; the index maps group variable positions
// by the dimensions the constraint families sum over.
type formulator struct {
	problem *Problem
	model   mip.Model

	vars        []AssignmentVar
	byShiftRole map[shiftRoleKey][]int
	byEmpShift  map[empShiftKey][]int
	byEmployee  map[string][]int

	stats FormulationStats
}

func (f *formulator) createVariables() {
	p := f.problem
	for ei := range p.Employees {
		emp := &p.Employees[ei]
		held := p.EmployeeRoles[emp.ID]
		for si := range p.Shifts {
			if !p.Availability[ei][si] {
				continue
			}
			shift := &p.Shifts[si]
			for _, req := range p.RoleRequirements[shift.ID] {
				if _, ok := held[req.RoleID]; !ok {
					continue
				}
				idx := len(f.vars)
				f.vars = append(f.vars, AssignmentVar{
					EmployeeID: emp.ID,
					ShiftID:    shift.ID,
					RoleID:     req.RoleID,
					Score:      p.Preference[ei][si],
					Var:        f.model.NewBool(),
				})
				f.byShiftRole[shiftRoleKey{shift.ID, req.RoleID}] = append(f.byShiftRole[shiftRoleKey{shift.ID, req.RoleID}], idx)
				f.byEmpShift[empShiftKey{emp.ID, shift.ID}] = append(f.byEmpShift[empShiftKey{emp.ID, shift.ID}], idx)
				f.byEmployee[emp.ID] = append(f.byEmployee[emp.ID], idx)
			}
		}
	}
}

// demandConstraints pins every (shift, role) demand to its exact headcount.
// A demand no variable can cover still gets its row, which is what renders
// an under-staffed week infeasible instead of silently short.
func (f *formulator) demandConstraints() {
	p := f.problem
	for i := range p.Shifts {
		shift := &p.Shifts[i]
		for _, req := range p.RoleRequirements[shift.ID] {
			con := f.model.NewConstraint(mip.Equal, float64(req.RequiredCount))
			for _, idx := range f.byShiftRole[shiftRoleKey{shift.ID, req.RoleID}] {
				con.NewTerm(1, f.vars[idx].Var)
			}
			f.stats.DemandConstraints++
		}
	}
}

// singleAssignmentConstraints caps each employee at one role per shift. Pairs
// with a single candidate variable are trivially satisfied and emit nothing.
func (f *formulator) singleAssignmentConstraints() {
	p := f.problem
	for ei := range p.Employees {
		for si := range p.Shifts {
			idxs := f.byEmpShift[empShiftKey{p.Employees[ei].ID, p.Shifts[si].ID}]
			if len(idxs) < 2 {
				continue
			}
			con := f.model.NewConstraint(mip.LessThanOrEqual, 1)
			for _, idx := range idxs {
				con.NewTerm(1, f.vars[idx].Var)
			}
			f.stats.SingleAssignmentRows++
		}
	}
}

// shiftPairConstraints forbids one employee from taking two shifts that
// overlap, or that sit closer than the minimum rest when that rule is hard.
// Both families share the same row shape, so a pair that conflicts on both
// grounds is emitted once.
func (f *formulator) shiftPairConstraints() {
	p := f.problem
	restRow, restOK := p.Constraints[model.ConstraintMinRestHours]
	restHard := restOK && restRow.IsHard

	for i := range p.Shifts {
		for j := i + 1; j < len(p.Shifts); j++ {
			s1, s2 := p.Shifts[i].ID, p.Shifts[j].ID
			if !p.Overlapping(s1, s2) && !(restHard && p.RestConflict(s1, s2)) {
				continue
			}
			for ei := range p.Employees {
				emp := p.Employees[ei].ID
				a := f.byEmpShift[empShiftKey{emp, s1}]
				b := f.byEmpShift[empShiftKey{emp, s2}]
				if len(a) == 0 || len(b) == 0 {
					continue
				}
				con := f.model.NewConstraint(mip.LessThanOrEqual, 1)
				for _, idx := range a {
					con.NewTerm(1, f.vars[idx].Var)
				}
				for _, idx := range b {
					con.NewTerm(1, f.vars[idx].Var)
				}
				f.stats.ShiftPairRows++
			}
		}
	}
}

// weeklyCeilings enforces the hard max_hours_per_week and max_shifts_per_week
// rows per employee.
func (f *formulator) weeklyCeilings() {
	p := f.problem
	if row, ok := p.Constraints[model.ConstraintMaxHoursPerWeek]; ok && row.IsHard {
		for _, emp := range p.Employees {
			idxs := f.byEmployee[emp.ID]
			if len(idxs) == 0 {
				continue
			}
			con := f.model.NewConstraint(mip.LessThanOrEqual, row.Value)
			for _, idx := range idxs {
				con.NewTerm(p.ShiftDurations[f.vars[idx].ShiftID], f.vars[idx].Var)
			}
			f.stats.WeeklyCeilingRows++
		}
	}
	if row, ok := p.Constraints[model.ConstraintMaxShiftsPerWeek]; ok && row.IsHard {
		for _, emp := range p.Employees {
			idxs := f.byEmployee[emp.ID]
			if len(idxs) == 0 {
				continue
			}
			con := f.model.NewConstraint(mip.LessThanOrEqual, row.Value)
			for _, idx := range idxs {
				con.NewTerm(1, f.vars[idx].Var)
			}
			f.stats.WeeklyCeilingRows++
		}
	}
}

// weeklyFloors handles min_hours_per_week and min_shifts_per_week. Hard rows
// become per-employee lower bounds; soft rows get a shortfall slack penalized
// at the fairness weight. Floors only apply to employees who can be scheduled
// at all, so one fully booked-off employee does not sink the whole week.
func (f *formulator) weeklyFloors() {
	p := f.problem
	f.floorRows(model.ConstraintMinHoursPerWeek, func(idx int) float64 {
		return p.ShiftDurations[f.vars[idx].ShiftID]
	})
	f.floorRows(model.ConstraintMinShiftsPerWeek, func(int) float64 { return 1 })
}

func (f *formulator) floorRows(kind model.SystemConstraintType, coef func(varIdx int) float64) {
	p := f.problem
	row, ok := p.Constraints[kind]
	if !ok || row.Value <= 0 {
		return
	}
	if !row.IsHard && p.Config.WeightFairness == 0 {
		return
	}
	for _, emp := range p.Employees {
		idxs := f.byEmployee[emp.ID]
		if len(idxs) == 0 {
			continue
		}
		con := f.model.NewConstraint(mip.GreaterThanOrEqual, row.Value)
		for _, idx := range idxs {
			con.NewTerm(coef(idx), f.vars[idx].Var)
		}
		if !row.IsHard {
			slack := f.model.NewFloat(0, row.Value)
			con.NewTerm(1, slack)
			f.model.Objective().NewTerm(-p.Config.WeightFairness, slack)
			f.stats.SlackVars++
		}
		f.stats.WeeklyFloorRows++
	}
}

// consecutiveDayLimits models max_consecutive_days with per-day work
// indicators: y[e,d] must be 1 whenever any assignment of employee e falls on
// day d, and every window of limit+1 consecutive days caps the indicator sum.
// Soft rows absorb the excess into a penalized slack instead.
func (f *formulator) consecutiveDayLimits() {
	p := f.problem
	row, ok := p.Constraints[model.ConstraintMaxConsecutiveDays]
	if !ok {
		return
	}
	if !row.IsHard && p.Config.WeightFairness == 0 {
		return
	}
	limit := int(row.Value)
	if limit < 1 || len(p.Shifts) == 0 {
		return
	}

	dayOf := make(map[string]time.Time, len(p.Shifts))
	var first, last time.Time
	for i := range p.Shifts {
		day := model.DateOnly(p.Shifts[i].StartAt)
		dayOf[p.Shifts[i].ID] = day
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}
	span := int(last.Sub(first).Hours()/24) + 1
	if span <= limit {
		return
	}

	for _, emp := range p.Employees {
		idxs := f.byEmployee[emp.ID]
		if len(idxs) == 0 {
			continue
		}
		byDay := make(map[time.Time][]int)
		for _, idx := range idxs {
			day := dayOf[f.vars[idx].ShiftID]
			byDay[day] = append(byDay[day], idx)
		}
		if len(byDay) <= limit {
			continue
		}

		worked := make(map[time.Time]mip.Bool, len(byDay))
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			dayIdxs, ok := byDay[day]
			if !ok {
				continue
			}
			y := f.model.NewBool()
			worked[day] = y
			for _, idx := range dayIdxs {
				link := f.model.NewConstraint(mip.LessThanOrEqual, 0)
				link.NewTerm(1, f.vars[idx].Var)
				link.NewTerm(-1, y)
			}
		}

		for start := first; !start.After(last.AddDate(0, 0, -limit)); start = start.AddDate(0, 0, 1) {
			var ys []mip.Bool
			for d := 0; d <= limit; d++ {
				if y, ok := worked[start.AddDate(0, 0, d)]; ok {
					ys = append(ys, y)
				}
			}
			if len(ys) <= limit {
				continue
			}
			con := f.model.NewConstraint(mip.LessThanOrEqual, float64(limit))
			for _, y := range ys {
				con.NewTerm(1, y)
			}
			if !row.IsHard {
				over := f.model.NewFloat(0, float64(len(ys)-limit))
				con.NewTerm(-1, over)
				f.model.Objective().NewTerm(-p.Config.WeightFairness, over)
				f.stats.SlackVars++
			}
			f.stats.ConsecutiveDayWindows++
		}
	}
}

// objectiveTerms assembles the maximized objective: preference and coverage
// reward minus the per-hour cost placeholder, one merged coefficient per
// variable, plus the linearized fairness spread.
func (f *formulator) objectiveTerms() {
	p := f.problem
	cfg := p.Config
	obj := f.model.Objective()
	for i := range f.vars {
		v := &f.vars[i]
		coef := cfg.WeightPreferences*v.Score + cfg.WeightCoverage - cfg.WeightCost*p.ShiftDurations[v.ShiftID]
		if coef != 0 {
			obj.NewTerm(coef, v.Var)
		}
	}
	f.fairnessTerms()
}

// fairnessTerms linearizes -(max load - min load) with two continuous
// variables: minLoad is pushed up against every employee's assignment total,
// maxLoad is pushed down onto it, and the objective rewards their difference
// shrinking. Only employees with at least one candidate variable participate,
// otherwise an unschedulable employee would pin the minimum at zero.
func (f *formulator) fairnessTerms() {
	p := f.problem
	weight := p.Config.WeightFairness
	if weight == 0 {
		return
	}
	participants := make([]string, 0, len(p.Employees))
	for _, emp := range p.Employees {
		if len(f.byEmployee[emp.ID]) > 0 {
			participants = append(participants, emp.ID)
		}
	}
	if len(participants) < 2 {
		return
	}

	bound := float64(len(p.Shifts))
	minLoad := f.model.NewFloat(0, bound)
	maxLoad := f.model.NewFloat(0, bound)
	f.stats.FairnessVars = 2

	for _, empID := range participants {
		lower := f.model.NewConstraint(mip.LessThanOrEqual, 0)
		lower.NewTerm(1, minLoad)
		upper := f.model.NewConstraint(mip.GreaterThanOrEqual, 0)
		upper.NewTerm(1, maxLoad)
		for _, idx := range f.byEmployee[empID] {
			lower.NewTerm(-1, f.vars[idx].Var)
			upper.NewTerm(-1, f.vars[idx].Var)
		}
	}

	obj := f.model.Objective()
	obj.NewTerm(weight, minLoad)
	obj.NewTerm(-weight, maxLoad)
}
