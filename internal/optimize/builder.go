// Package optimize turns a workforce snapshot into a weekly assignment
// problem, formulates it as a mixed-integer program, and drives the solver.
//
// The package is stateless: BuildProblem and Formulate are pure functions of
// their inputs, and a Solver invocation owns no resources beyond the solve
// itself. All database access happens upstream when the snapshot is loaded.
package optimize

import (
	"sort"
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// RoleRequirement is one (role, headcount) demand of a planned shift,
// replicated from its template.
type RoleRequirement struct {
	RoleID        string
	RequiredCount int
}

// AssignmentKey identifies one live assignment triple.
type AssignmentKey struct {
	EmployeeID     string
	PlannedShiftID string
	RoleID         string
}

// Problem is the frozen, numerically indexed form of one run's snapshot. The
// matrices are indexed by the positions in Employees and Shifts; the adjacency
// maps are symmetric and hold only conflicting pairs.
type Problem struct {
	Schedule model.WeeklySchedule
	Config   model.OptimizationConfig

	// Employees holds the eligible (active) employees in a stable order;
	// everyone else is excluded from the matrices entirely.
	Employees []model.Employee
	// Shifts holds the schedule's plannable shifts, cancelled ones excluded.
	Shifts []model.PlannedShift
	// Roles holds the roles referenced by at least one demand in scope.
	Roles []model.Role

	EmployeeIndex map[string]int
	ShiftIndex    map[string]int
	RoleIndex     map[string]int

	// Availability[e][s] is true iff employee e has no approved time-off
	// covering any calendar date shift s touches.
	Availability [][]bool
	// Preference[e][s] is the max matching preference weight, in [0, 1].
	Preference [][]float64

	RoleRequirements map[string][]RoleRequirement
	EmployeeRoles    map[string]map[string]struct{}

	ShiftOverlaps      map[string]map[string]struct{}
	ShiftRestConflicts map[string]map[string]struct{}

	// ShiftDurations is each shift's length in fractional hours.
	ShiftDurations map[string]float64

	Constraints map[model.SystemConstraintType]model.SystemConstraint

	// ExistingAssignments holds the live assignments present when the
	// snapshot was taken; the applier uses it for conflict reporting.
	ExistingAssignments map[AssignmentKey]struct{}
}

// Overlapping reports whether the two shifts occupy intersecting intervals.
func (p *Problem) Overlapping(shiftID, otherID string) bool {
	_, ok := p.ShiftOverlaps[shiftID][otherID]
	return ok
}

// RestConflict reports whether assigning both shifts to one employee would
// leave less than the configured minimum rest between them.
func (p *Problem) RestConflict(shiftID, otherID string) bool {
	_, ok := p.ShiftRestConflicts[shiftID][otherID]
	return ok
}

// TotalDemand sums the required headcount across all shifts in scope.
func (p *Problem) TotalDemand() int {
	total := 0
	for _, reqs := range p.RoleRequirements {
		for _, r := range reqs {
			total += r.RequiredCount
		}
	}
	return total
}

// BuildProblem compiles a run context into the dense problem form the
// formulator consumes. It never touches the database.
func BuildProblem(rc *model.RunContext) *Problem {
	p := &Problem{
		Schedule:    rc.Schedule,
		Config:      rc.Config,
		Constraints: rc.ConstraintByKind(),
	}

	for _, e := range rc.Employees {
		if e.Eligible() {
			p.Employees = append(p.Employees, e)
		}
	}
	for _, s := range rc.Shifts {
		if s.Status != model.PlannedShiftStatusCancelled {
			p.Shifts = append(p.Shifts, s)
		}
	}

	p.EmployeeIndex = make(map[string]int, len(p.Employees))
	for i := range p.Employees {
		p.EmployeeIndex[p.Employees[i].ID] = i
	}
	p.ShiftIndex = make(map[string]int, len(p.Shifts))
	for i := range p.Shifts {
		p.ShiftIndex[p.Shifts[i].ID] = i
	}

	demands := rc.DemandsByTemplate()
	p.RoleRequirements = make(map[string][]RoleRequirement, len(p.Shifts))
	for i := range p.Shifts {
		s := &p.Shifts[i]
		reqs := make([]RoleRequirement, 0, len(demands[s.TemplateID]))
		for _, d := range demands[s.TemplateID] {
			reqs = append(reqs, RoleRequirement{RoleID: d.RoleID, RequiredCount: d.RequiredCount})
		}
		p.RoleRequirements[s.ID] = reqs
	}

	p.Roles = referencedRoles(rc.Roles, p.RoleRequirements)
	p.RoleIndex = make(map[string]int, len(p.Roles))
	for i := range p.Roles {
		p.RoleIndex[p.Roles[i].ID] = i
	}

	p.EmployeeRoles = make(map[string]map[string]struct{}, len(p.Employees))
	for i := range p.Employees {
		e := &p.Employees[i]
		held := make(map[string]struct{}, len(e.RoleIDs))
		for _, id := range e.RoleIDs {
			held[id] = struct{}{}
		}
		p.EmployeeRoles[e.ID] = held
	}

	p.ShiftDurations = make(map[string]float64, len(p.Shifts))
	for i := range p.Shifts {
		p.ShiftDurations[p.Shifts[i].ID] = p.Shifts[i].DurationHours()
	}

	minRest, restPresent := 0.0, false
	if row, ok := p.Constraints[model.ConstraintMinRestHours]; ok {
		minRest, restPresent = row.Value, true
	}
	p.ShiftOverlaps, p.ShiftRestConflicts = shiftConflicts(p.Shifts, minRest, restPresent)

	p.buildMatrices(rc)

	p.ExistingAssignments = make(map[AssignmentKey]struct{}, len(rc.ExistingAssignments))
	for _, a := range rc.ExistingAssignments {
		key := AssignmentKey{EmployeeID: a.EmployeeID, PlannedShiftID: a.PlannedShiftID, RoleID: a.RoleID}
		p.ExistingAssignments[key] = struct{}{}
	}

	return p
}

// buildMatrices fills Availability and Preference for every eligible employee
// against every shift in scope.
func (p *Problem) buildMatrices(rc *model.RunContext) {
	timeOff := make(map[string][]model.TimeOffRequest)
	for _, t := range rc.TimeOff {
		timeOff[t.EmployeeID] = append(timeOff[t.EmployeeID], t)
	}
	prefs := make(map[string][]model.EmployeePreference)
	for _, pref := range rc.Preferences {
		prefs[pref.EmployeeID] = append(prefs[pref.EmployeeID], pref)
	}

	dates := make([][]time.Time, len(p.Shifts))
	weekdays := make([]model.DayOfWeek, len(p.Shifts))
	for i := range p.Shifts {
		dates[i] = shiftDates(&p.Shifts[i])
		weekdays[i] = model.DayOfWeekFromWeekday(model.DateOnly(p.Shifts[i].StartAt).Weekday())
	}

	p.Availability = make([][]bool, len(p.Employees))
	p.Preference = make([][]float64, len(p.Employees))
	for ei := range p.Employees {
		emp := &p.Employees[ei]
		p.Availability[ei] = make([]bool, len(p.Shifts))
		p.Preference[ei] = make([]float64, len(p.Shifts))
		for si := range p.Shifts {
			p.Availability[ei][si] = availableOn(timeOff[emp.ID], dates[si])
			p.Preference[ei][si] = preferenceScore(prefs[emp.ID], &p.Shifts[si], weekdays[si], dates[si])
		}
	}
}

// shiftDates lists the calendar dates a shift touches. An overnight shift
// yields both days; a shift ending exactly at midnight stays on its start day.
func shiftDates(s *model.PlannedShift) []time.Time {
	first := model.DateOnly(s.StartAt)
	last := model.DateOnly(s.EndAt)
	if s.EndAt.Equal(last) {
		last = last.AddDate(0, 0, -1)
	}
	dates := []time.Time{first}
	for d := first.AddDate(0, 0, 1); !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// availableOn reports whether none of the employee's approved time-off
// requests cover any of the given dates.
func availableOn(timeOff []model.TimeOffRequest, dates []time.Time) bool {
	for i := range timeOff {
		if timeOff[i].Status != model.TimeOffStatusApproved {
			continue
		}
		for _, d := range dates {
			if timeOff[i].CoversDate(d) {
				return false
			}
		}
	}
	return true
}

// preferenceScore scores one (employee, shift) pair: the max weight among the
// employee's preferences whose set dimensions all match the shift, clipped to
// [0, 1]. Matching is conjunctive; an unset dimension matches anything.
func preferenceScore(prefs []model.EmployeePreference, shift *model.PlannedShift, day model.DayOfWeek, dates []time.Time) float64 {
	best := 0.0
	for i := range prefs {
		pref := &prefs[i]
		if pref.TemplateID != nil && *pref.TemplateID != shift.TemplateID {
			continue
		}
		if pref.DayOfWeek != nil && *pref.DayOfWeek != day {
			continue
		}
		if !preferenceTimeMatches(pref, shift, dates) {
			continue
		}
		if pref.Weight > best {
			best = pref.Weight
		}
	}
	return clamp01(best)
}

// preferenceTimeMatches anchors the preference's time-of-day window on each
// date the shift touches and tests for interval overlap, so an early-morning
// preference still matches the tail of an overnight shift.
func preferenceTimeMatches(pref *model.EmployeePreference, shift *model.PlannedShift, dates []time.Time) bool {
	if pref.StartTimeOfDay == nil || pref.EndTimeOfDay == nil {
		return true
	}
	for _, day := range dates {
		start, end, err := model.ShiftInterval(day, *pref.StartTimeOfDay, *pref.EndTimeOfDay)
		if err != nil {
			return false
		}
		if start.Before(shift.EndAt) && shift.StartAt.Before(end) {
			return true
		}
	}
	return false
}

// shiftConflicts computes the symmetric overlap and rest adjacency maps in a
// single pass over the shifts sorted by start. Intervals [s1,e1) and [s2,e2)
// overlap iff s1 < e2 and s2 < e1; a rest conflict exists when the separation
// between the chronologically ordered pair is below minRestHours.
func shiftConflicts(shifts []model.PlannedShift, minRestHours float64, restPresent bool) (overlaps, rest map[string]map[string]struct{}) {
	overlaps = make(map[string]map[string]struct{})
	rest = make(map[string]map[string]struct{})

	order := make([]int, len(shifts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shifts[order[a]].StartAt.Before(shifts[order[b]].StartAt)
	})

	horizon := 0.0
	if restPresent && minRestHours > horizon {
		horizon = minRestHours
	}

	for oi, i := range order {
		for _, j := range order[oi+1:] {
			// Starts are sorted, so the gap only grows from here.
			gap := shifts[j].StartAt.Sub(shifts[i].EndAt).Hours()
			if gap >= horizon {
				break
			}
			if gap < 0 {
				addPair(overlaps, shifts[i].ID, shifts[j].ID)
			}
			if restPresent && gap < minRestHours {
				addPair(rest, shifts[i].ID, shifts[j].ID)
			}
		}
	}
	return overlaps, rest
}

func addPair(adj map[string]map[string]struct{}, a, b string) {
	if adj[a] == nil {
		adj[a] = make(map[string]struct{})
	}
	if adj[b] == nil {
		adj[b] = make(map[string]struct{})
	}
	adj[a][b] = struct{}{}
	adj[b][a] = struct{}{}
}

// referencedRoles keeps the snapshot's role order but drops roles no demand
// in scope references.
func referencedRoles(roles []model.Role, requirements map[string][]RoleRequirement) []model.Role {
	needed := make(map[string]struct{})
	for _, reqs := range requirements {
		for _, r := range reqs {
			needed[r.RoleID] = struct{}{}
		}
	}
	kept := make([]model.Role, 0, len(needed))
	for _, role := range roles {
		if _, ok := needed[role.ID]; ok {
			kept = append(kept, role)
		}
	}
	return kept
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
