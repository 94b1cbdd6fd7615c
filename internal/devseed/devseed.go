// Package devseed populates a development database with a small but
// complete roster: roles, employees, shift templates, work rules, solver
// profiles, and a draft schedule ready to optimize. Seeding is idempotent;
// re-running against a seeded database is a no-op.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/rosterd/rosterd/internal/errors"

	"github.com/rosterd/rosterd/internal/data"
	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// DefaultPassword is the password every seeded employee logs in with.
const DefaultPassword = "rosterd-dev"

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB          *sql.DB
	employees   *service.EmployeeService
	roles       *service.RoleService
	templates   *service.ShiftTemplateService
	schedules   *service.ScheduleService
	configs     *service.OptimizationConfigService
	constraints *service.ConstraintService
	preferences *service.PreferenceService
	timeOff     *service.TimeOffService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:          db,
		employees:   service.NewEmployeeService(service.EmployeeServiceOptions{Employees: data.NewEmployeeRepo(db)}),
		roles:       service.NewRoleService(service.RoleServiceOptions{Roles: data.NewRoleRepo(db)}),
		templates:   service.NewShiftTemplateService(service.ShiftTemplateServiceOptions{Templates: data.NewShiftTemplateRepo(db)}),
		schedules:   service.NewScheduleService(service.ScheduleServiceOptions{Schedules: data.NewScheduleRepo(db)}),
		configs:     service.NewOptimizationConfigService(service.OptimizationConfigServiceOptions{Configs: data.NewOptimizationConfigRepo(db)}),
		constraints: service.NewConstraintService(service.ConstraintServiceOptions{Constraints: data.NewConstraintRepo(db)}),
		preferences: service.NewPreferenceService(service.PreferenceServiceOptions{Preferences: data.NewPreferenceRepo(db)}),
		timeOff:     service.NewTimeOffService(service.TimeOffServiceOptions{TimeOff: data.NewTimeOffRepo(db)}),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedRoles(ctx, svcs.roles, logger)

	roleIDs, err := indexRolesByName(ctx, svcs.roles)
	if err != nil {
		return fmt.Errorf("index roles: %w", err)
	}

	failures += seedEmployees(ctx, svcs.employees, roleIDs, logger)
	failures += seedShiftTemplates(ctx, svcs.templates, roleIDs, logger)
	failures += seedConstraints(ctx, svcs.constraints, logger)
	failures += seedOptimizationConfigs(ctx, svcs.configs, logger)

	employees, err := indexEmployeesByEmail(ctx, svcs.employees)
	if err != nil {
		return fmt.Errorf("index employees: %w", err)
	}

	if err := seedSchedule(ctx, svcs, employees, logger); err != nil {
		return err
	}

	failures += seedPreferences(ctx, svcs, employees, logger)
	failures += seedTimeOff(ctx, svcs.timeOff, employees, logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultRoleSeeds() []model.CreateRoleRequest {
	return []model.CreateRoleRequest{
		{Name: "server"},
		{Name: "cook"},
		{Name: "host"},
		{Name: "bartender"},
	}
}

func seedRoles(ctx context.Context, svc *service.RoleService, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultRoleSeeds() {
		_, err := svc.Create(ctx, &req)
		switch {
		case err == nil:
			logInfo(ctx, logger, "created role", "name", req.Name)
		case apperrors.IsConflict(err):
			logInfo(ctx, logger, "role already exists", "name", req.Name)
		default:
			logError(ctx, logger, "failed to create role", "name", req.Name, "error", err)
			failures++
		}
	}
	return failures
}

func indexRolesByName(ctx context.Context, svc *service.RoleService) (map[string]string, error) {
	roles, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(roles))
	for _, r := range roles {
		out[r.Name] = r.ID
	}
	return out, nil
}

type employeeSeedSpec struct {
	name      string
	email     string
	isManager bool
	roleNames []string
}

func defaultEmployeeSeeds() []employeeSeedSpec {
	return []employeeSeedSpec{
		{name: "Morgan Reyes", email: "morgan@rosterd.local", isManager: true},
		{name: "Ana Silva", email: "ana@rosterd.local", roleNames: []string{"server"}},
		{name: "Ben Okafor", email: "ben@rosterd.local", roleNames: []string{"cook"}},
		{name: "Chloe Park", email: "chloe@rosterd.local", roleNames: []string{"server", "host"}},
		{name: "Daniel Wu", email: "daniel@rosterd.local", roleNames: []string{"bartender", "server"}},
		{name: "Eva Novak", email: "eva@rosterd.local", roleNames: []string{"host"}},
		{name: "Felix Braun", email: "felix@rosterd.local", roleNames: []string{"cook"}},
	}
}

func seedEmployees(
	ctx context.Context,
	svc *service.EmployeeService,
	roleIDs map[string]string,
	logger *slog.Logger,
) int {
	failures := 0
	for _, spec := range defaultEmployeeSeeds() {
		ids, err := resolveRoleIDs(roleIDs, spec.roleNames)
		if err != nil {
			logError(ctx, logger, "failed to resolve roles", "employee", spec.email, "error", err)
			failures++
			continue
		}

		req := model.CreateEmployeeRequest{
			Name:      spec.name,
			Email:     spec.email,
			Password:  DefaultPassword,
			IsManager: spec.isManager,
			RoleIDs:   ids,
		}
		_, err = svc.Create(ctx, &req)
		switch {
		case err == nil:
			logInfo(ctx, logger, "created employee", "email", spec.email, "manager", spec.isManager)
		case apperrors.IsConflict(err):
			logInfo(ctx, logger, "employee already exists", "email", spec.email)
		default:
			logError(ctx, logger, "failed to create employee", "email", spec.email, "error", err)
			failures++
		}
	}
	return failures
}

func resolveRoleIDs(roleIDs map[string]string, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := roleIDs[name]
		if !ok {
			return nil, fmt.Errorf("role name %q not found in seeded roles", name)
		}
		out = append(out, id)
	}
	return out, nil
}

func indexEmployeesByEmail(ctx context.Context, svc *service.EmployeeService) (map[string]*model.Employee, error) {
	list, err := svc.List(ctx, model.EmployeesListOptions{Limit: 200})
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Employee, len(list))
	for _, e := range list {
		out[e.Email] = e
	}
	return out, nil
}

type templateSeedSpec struct {
	name     string
	start    string
	end      string
	location string
	demands  map[string]int // role name -> required count
}

func defaultTemplateSeeds() []templateSeedSpec {
	return []templateSeedSpec{
		{
			name:     "morning-floor",
			start:    "08:00",
			end:      "16:00",
			location: "front of house",
			demands:  map[string]int{"server": 2, "host": 1},
		},
		{
			name:     "evening-floor",
			start:    "16:00",
			end:      "23:00",
			location: "front of house",
			demands:  map[string]int{"server": 2, "bartender": 1},
		},
		{
			name:     "kitchen-day",
			start:    "07:00",
			end:      "15:00",
			location: "kitchen",
			demands:  map[string]int{"cook": 1},
		},
		{
			name:     "kitchen-night",
			start:    "15:00",
			end:      "23:00",
			location: "kitchen",
			demands:  map[string]int{"cook": 1},
		},
	}
}

func seedShiftTemplates(
	ctx context.Context,
	svc *service.ShiftTemplateService,
	roleIDs map[string]string,
	logger *slog.Logger,
) int {
	existing, err := svc.List(ctx)
	if err != nil {
		logError(ctx, logger, "failed to list shift templates", "error", err)
		return 1
	}
	byName := make(map[string]bool, len(existing))
	for _, t := range existing {
		byName[t.Name] = true
	}

	failures := 0
	for _, spec := range defaultTemplateSeeds() {
		if byName[spec.name] {
			logInfo(ctx, logger, "shift template already exists", "name", spec.name)
			continue
		}

		demands, err := buildDemands(roleIDs, spec.demands)
		if err != nil {
			logError(ctx, logger, "failed to resolve demands", "template", spec.name, "error", err)
			failures++
			continue
		}

		req := model.CreateShiftTemplateRequest{
			Name:           spec.name,
			StartTimeOfDay: tod(spec.start),
			EndTimeOfDay:   tod(spec.end),
			Location:       strPtr(spec.location),
			Demands:        demands,
		}
		if _, err := svc.Create(ctx, &req); err != nil {
			logError(ctx, logger, "failed to create shift template", "name", spec.name, "error", err)
			failures++
			continue
		}
		logInfo(ctx, logger, "created shift template", "name", spec.name)
	}
	return failures
}

func buildDemands(roleIDs map[string]string, demands map[string]int) ([]model.TemplateDemandInput, error) {
	out := make([]model.TemplateDemandInput, 0, len(demands))
	for roleName, count := range demands {
		id, ok := roleIDs[roleName]
		if !ok {
			return nil, fmt.Errorf("role name %q not found in seeded roles", roleName)
		}
		out = append(out, model.TemplateDemandInput{RoleID: id, RequiredCount: count})
	}
	return out, nil
}

func defaultConstraintSeeds() []model.CreateSystemConstraintRequest {
	return []model.CreateSystemConstraintRequest{
		{Kind: model.ConstraintMaxHoursPerWeek, Value: 40, IsHard: true},
		{Kind: model.ConstraintMinRestHours, Value: 11, IsHard: true},
		{Kind: model.ConstraintMaxConsecutiveDays, Value: 6, IsHard: false},
		{Kind: model.ConstraintMaxShiftsPerWeek, Value: 5, IsHard: false},
	}
}

func seedConstraints(ctx context.Context, svc *service.ConstraintService, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultConstraintSeeds() {
		_, err := svc.Create(ctx, &req)
		switch {
		case err == nil:
			logInfo(ctx, logger, "created constraint", "kind", string(req.Kind), "value", req.Value)
		case apperrors.IsConflict(err):
			logInfo(ctx, logger, "constraint already exists", "kind", string(req.Kind))
		default:
			logError(ctx, logger, "failed to create constraint", "kind", string(req.Kind), "error", err)
			failures++
		}
	}
	return failures
}

func defaultConfigSeeds() []model.CreateOptimizationConfigRequest {
	return []model.CreateOptimizationConfigRequest{
		{
			Name:              "balanced",
			WeightFairness:    0.3,
			WeightPreferences: 0.3,
			WeightCost:        0.2,
			WeightCoverage:    0.2,
			MaxRuntimeSeconds: 60,
			MIPGap:            0.05,
			IsDefault:         true,
		},
		{
			Name:              "coverage-first",
			WeightFairness:    0.1,
			WeightPreferences: 0.1,
			WeightCost:        0.1,
			WeightCoverage:    0.7,
			MaxRuntimeSeconds: 120,
			MIPGap:            0.02,
		},
	}
}

func seedOptimizationConfigs(ctx context.Context, svc *service.OptimizationConfigService, logger *slog.Logger) int {
	existing, err := svc.List(ctx)
	if err != nil {
		logError(ctx, logger, "failed to list optimization configs", "error", err)
		return 1
	}
	byName := make(map[string]bool, len(existing))
	for _, c := range existing {
		byName[c.Name] = true
	}

	failures := 0
	for _, req := range defaultConfigSeeds() {
		if byName[req.Name] {
			logInfo(ctx, logger, "optimization config already exists", "name", req.Name)
			continue
		}
		if _, err := svc.Create(ctx, &req); err != nil {
			logError(ctx, logger, "failed to create optimization config", "name", req.Name, "error", err)
			failures++
			continue
		}
		logInfo(ctx, logger, "created optimization config", "name", req.Name, "default", req.IsDefault)
	}
	return failures
}

// seedSchedule creates a draft schedule for the upcoming week and fills it
// with shifts from every seeded template, Monday through Friday. A schedule
// that already covers that week is left untouched, shifts included.
func seedSchedule(
	ctx context.Context,
	svcs Services,
	employees map[string]*model.Employee,
	logger *slog.Logger,
) error {
	manager := findManager(employees)
	if manager == nil {
		return fmt.Errorf("no manager found among seeded employees")
	}

	weekStart := nextWeekStart(time.Now())
	existing, err := findScheduleForWeek(ctx, svcs.schedules, weekStart)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}
	if existing != nil {
		logInfo(ctx, logger, "schedule already exists", "week_start", weekStart.Format(model.DateLayout))
		return nil
	}

	schedule, err := svcs.schedules.Create(ctx, &model.CreateWeeklyScheduleRequest{
		WeekStartDate: weekStart.Format(model.DateLayout),
	}, manager.ID)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	logInfo(ctx, logger, "created schedule", "week_start", weekStart.Format(model.DateLayout))

	templates, err := svcs.templates.List(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	failures := 0
	for _, tpl := range templates {
		for day := 0; day < 5; day++ { // Monday through Friday
			shiftDate := weekStart.AddDate(0, 0, day)
			req := model.CreatePlannedShiftRequest{
				TemplateID: tpl.ID,
				ShiftDate:  shiftDate.Format(model.DateLayout),
			}
			if _, err := svcs.schedules.AddShift(ctx, schedule.ID, &req); err != nil {
				logError(ctx, logger, "failed to add shift",
					"template", tpl.Name, "date", req.ShiftDate, "error", err)
				failures++
			}
		}
	}
	if failures > 0 {
		logWarn(ctx, logger, "some shifts failed to create", "failures", failures)
	}
	return nil
}

func findManager(employees map[string]*model.Employee) *model.Employee {
	for _, e := range employees {
		if e.IsManager {
			return e
		}
	}
	return nil
}

func findScheduleForWeek(
	ctx context.Context,
	svc *service.ScheduleService,
	weekStart time.Time,
) (*model.WeeklySchedule, error) {
	list, err := svc.List(ctx, model.SchedulesListOptions{Limit: 100})
	if err != nil {
		return nil, err
	}
	target := weekStart.Format(model.DateLayout)
	for _, s := range list {
		if s.WeekStartDate.Format(model.DateLayout) == target {
			return s, nil
		}
	}
	return nil, nil
}

// nextWeekStart returns the Monday strictly after the given time.
func nextWeekStart(now time.Time) time.Time {
	day := now
	for {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Monday {
			return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
}

type preferenceSeedSpec struct {
	email string
	req   model.CreatePreferenceRequest
}

func defaultPreferenceSeeds() []preferenceSeedSpec {
	monday := model.DayOfWeekMonday
	return []preferenceSeedSpec{
		{
			email: "ana@rosterd.local",
			req:   model.CreatePreferenceRequest{DayOfWeek: &monday, StartTimeOfDay: tod("16:00"), EndTimeOfDay: tod("23:00"), Weight: 0.9},
		},
		{
			email: "chloe@rosterd.local",
			req:   model.CreatePreferenceRequest{StartTimeOfDay: tod("08:00"), EndTimeOfDay: tod("16:00"), Weight: 0.7},
		},
	}
}

func seedPreferences(
	ctx context.Context,
	svcs Services,
	employees map[string]*model.Employee,
	logger *slog.Logger,
) int {
	failures := 0
	for _, spec := range defaultPreferenceSeeds() {
		emp, ok := employees[spec.email]
		if !ok {
			logError(ctx, logger, "preference target not found", "email", spec.email)
			failures++
			continue
		}

		existing, err := svcs.preferences.ListByEmployee(ctx, emp.ID)
		if err != nil {
			logError(ctx, logger, "failed to list preferences", "email", spec.email, "error", err)
			failures++
			continue
		}
		if len(existing) > 0 {
			logInfo(ctx, logger, "preferences already exist", "email", spec.email)
			continue
		}

		req := spec.req
		if _, err := svcs.preferences.Create(ctx, emp.ID, &req); err != nil {
			logError(ctx, logger, "failed to create preference", "email", spec.email, "error", err)
			failures++
			continue
		}
		logInfo(ctx, logger, "created preference", "email", spec.email, "weight", req.Weight)
	}
	return failures
}

func seedTimeOff(
	ctx context.Context,
	svc *service.TimeOffService,
	employees map[string]*model.Employee,
	logger *slog.Logger,
) int {
	emp, ok := employees["ben@rosterd.local"]
	if !ok {
		logError(ctx, logger, "time-off target not found", "email", "ben@rosterd.local")
		return 1
	}

	existing, err := svc.List(ctx, &emp.ID, nil, 1, 0)
	if err != nil {
		logError(ctx, logger, "failed to list time-off requests", "email", emp.Email, "error", err)
		return 1
	}
	if len(existing) > 0 {
		logInfo(ctx, logger, "time-off request already exists", "email", emp.Email)
		return 0
	}

	weekStart := nextWeekStart(time.Now())
	req := model.CreateTimeOffRequest{
		StartDate: weekStart.AddDate(0, 0, 2).Format(model.DateLayout),
		EndDate:   weekStart.AddDate(0, 0, 3).Format(model.DateLayout),
		Reason:    strPtr("family visit"),
	}
	if _, err := svc.Create(ctx, emp.ID, &req); err != nil {
		logError(ctx, logger, "failed to create time-off request", "email", emp.Email, "error", err)
		return 1
	}
	logInfo(ctx, logger, "created time-off request", "email", emp.Email, "start", req.StartDate)
	return 0
}

func tod(s string) *model.TimeOfDay {
	t := model.TimeOfDay(s)
	return &t
}

func strPtr(s string) *string { return &s }

func logInfo(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.InfoContext(ctx, msg, args...)
	}
}

func logWarn(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.WarnContext(ctx, msg, args...)
	}
}

func logError(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.ErrorContext(ctx, msg, args...)
	}
}
