// Package mocks provides generated mocks for the rosterd repository ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the core repository interfaces. The generated files are checked in so
// the module builds without a generate step; rerun after interface changes:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Job queue operations: Create, GetByID, GetByRunID, ReserveNext,
// WaitForNotification, Heartbeat, Complete, Fail, Stats, List, Delete,
// DeletePendingByRunID.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/rosterd/rosterd/internal/core JobRepository

// Scheduling run store: run CRUD, worker state transitions, solution rows,
// apply.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=run_repository_mock.go github.com/rosterd/rosterd/internal/core RunRepository

// Weekly schedule store: schedule lifecycle, planned shifts, assignments.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=schedule_repository_mock.go github.com/rosterd/rosterd/internal/core ScheduleRepository

// Employee store: employee CRUD and lookups.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=employee_repository_mock.go github.com/rosterd/rosterd/internal/core EmployeeRepository

// Optimization configuration store: config CRUD and default resolution.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=optimization_config_repository_mock.go github.com/rosterd/rosterd/internal/core OptimizationConfigRepository

// Run context loader for the optimization worker.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=snapshot_repository_mock.go github.com/rosterd/rosterd/internal/core SnapshotRepository
