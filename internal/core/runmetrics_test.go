package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rosterd/rosterd/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func TestComputeRunMetrics_Empty(t *testing.T) {
	t.Parallel()

	metrics := ComputeRunMetrics(nil, 4, 7)

	assert.Equal(t, 0, metrics.TotalAssignments)
	assert.Zero(t, metrics.AvgPreferenceScore)
	assert.Equal(t, 0, metrics.MinAssignments)
	assert.Equal(t, 0, metrics.MaxAssignments)
	assert.Zero(t, metrics.AvgAssignments)
	assert.Equal(t, 0, metrics.ShiftsFilled)
	assert.Equal(t, 4, metrics.ShiftsTotal)
	assert.Equal(t, 0, metrics.EmployeesAssigned)
	assert.Equal(t, 7, metrics.EmployeesTotal)
}

func TestComputeRunMetrics_Loads(t *testing.T) {
	t.Parallel()

	solutions := []model.SchedulingSolution{
		{PlannedShiftID: "s1", EmployeeID: strPtr("e1"), RoleID: strPtr("r1"), Score: 1.0},
		{PlannedShiftID: "s2", EmployeeID: strPtr("e1"), RoleID: strPtr("r1"), Score: 0.5},
		{PlannedShiftID: "s2", EmployeeID: strPtr("e2"), RoleID: strPtr("r1"), Score: 0.0},
		{PlannedShiftID: "s3", EmployeeID: strPtr("e1"), RoleID: strPtr("r2"), Score: 0.5},
	}

	metrics := ComputeRunMetrics(solutions, 5, 3)

	assert.Equal(t, 4, metrics.TotalAssignments)
	assert.InDelta(t, 0.5, metrics.AvgPreferenceScore, 1e-9)
	// e1 carries 3 assignments, e2 carries 1; e3 has none and is excluded.
	assert.Equal(t, 1, metrics.MinAssignments)
	assert.Equal(t, 3, metrics.MaxAssignments)
	assert.InDelta(t, 2.0, metrics.AvgAssignments, 1e-9)
	assert.Equal(t, 3, metrics.ShiftsFilled)
	assert.Equal(t, 5, metrics.ShiftsTotal)
	assert.Equal(t, 2, metrics.EmployeesAssigned)
	assert.Equal(t, 3, metrics.EmployeesTotal)
}

func TestComputeRunMetrics_NulledEmployeeStillCounts(t *testing.T) {
	t.Parallel()

	solutions := []model.SchedulingSolution{
		{PlannedShiftID: "s1", EmployeeID: nil, RoleID: nil, Score: 0.8},
		{PlannedShiftID: "s1", EmployeeID: strPtr("e2"), RoleID: strPtr("r1"), Score: 0.2},
	}

	metrics := ComputeRunMetrics(solutions, 1, 2)

	assert.Equal(t, 2, metrics.TotalAssignments)
	assert.InDelta(t, 0.5, metrics.AvgPreferenceScore, 1e-9)
	assert.Equal(t, 1, metrics.EmployeesAssigned)
	assert.Equal(t, 1, metrics.MinAssignments)
	assert.Equal(t, 1, metrics.MaxAssignments)
	assert.Equal(t, 1, metrics.ShiftsFilled)
}
