package model

// RunContext is the frozen workforce snapshot one optimization run consumes.
// It is loaded eagerly in a single pass; the optimizer never goes back to the
// database while solving.
type RunContext struct {
	Schedule WeeklySchedule
	Config   OptimizationConfig

	// Employees carries all employees with their qualified role sets;
	// eligibility filtering happens in the problem builder.
	Employees []Employee

	// Shifts are the schedule's planned shifts, cancelled ones excluded.
	Shifts []PlannedShift

	// Roles are all roles referenced by the shifts' template demands.
	Roles []Role

	// Demands holds the demand rows of every template referenced by Shifts.
	Demands []TemplateDemand

	// TimeOff contains only approved requests.
	TimeOff []TimeOffRequest

	Preferences []EmployeePreference
	Constraints []SystemConstraint

	// ExistingAssignments are the current live assignments on the schedule's
	// shifts, used by the applier for conflict reporting.
	ExistingAssignments []ShiftAssignment
}

// DemandsByTemplate groups the snapshot's demand rows by template id.
func (rc *RunContext) DemandsByTemplate() map[string][]TemplateDemand {
	grouped := make(map[string][]TemplateDemand, len(rc.Demands))
	for _, d := range rc.Demands {
		grouped[d.TemplateID] = append(grouped[d.TemplateID], d)
	}
	return grouped
}

// ConstraintByKind returns the snapshot's constraint rows keyed by kind.
func (rc *RunContext) ConstraintByKind() map[SystemConstraintType]SystemConstraint {
	byKind := make(map[SystemConstraintType]SystemConstraint, len(rc.Constraints))
	for _, c := range rc.Constraints {
		byKind[c.Kind] = c
	}
	return byKind
}
