package core

import (
	"github.com/rosterd/rosterd/internal/domain/model"
)

// ComputeRunMetrics derives a run's summary metrics from its solution rows.
// Per-employee load stats count only employees that received at least one
// assignment; rows whose employee reference was nulled by a later personnel
// delete still count as assignments but carry no load.
func ComputeRunMetrics(solutions []model.SchedulingSolution, shiftsTotal, employeesTotal int) model.RunMetrics {
	metrics := model.RunMetrics{
		TotalAssignments: len(solutions),
		ShiftsTotal:      shiftsTotal,
		EmployeesTotal:   employeesTotal,
	}
	if len(solutions) == 0 {
		return metrics
	}

	var scoreSum float64
	loadByEmployee := make(map[string]int)
	filledShifts := make(map[string]struct{})
	for _, s := range solutions {
		scoreSum += s.Score
		filledShifts[s.PlannedShiftID] = struct{}{}
		if s.EmployeeID != nil {
			loadByEmployee[*s.EmployeeID]++
		}
	}
	metrics.AvgPreferenceScore = scoreSum / float64(len(solutions))
	metrics.ShiftsFilled = len(filledShifts)
	metrics.EmployeesAssigned = len(loadByEmployee)

	if len(loadByEmployee) == 0 {
		return metrics
	}
	first := true
	total := 0
	for _, load := range loadByEmployee {
		total += load
		if first {
			metrics.MinAssignments = load
			metrics.MaxAssignments = load
			first = false
			continue
		}
		if load < metrics.MinAssignments {
			metrics.MinAssignments = load
		}
		if load > metrics.MaxAssignments {
			metrics.MaxAssignments = load
		}
	}
	metrics.AvgAssignments = float64(total) / float64(len(loadByEmployee))
	return metrics
}
