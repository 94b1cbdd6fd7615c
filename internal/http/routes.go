// Package httpx provides the JSON API surface for the rosterd scheduling service.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/rosterd/rosterd/internal/ports"
	"github.com/rosterd/rosterd/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth        *service.AuthService
	Scheduling  *service.SchedulingService
	Employees   *service.EmployeeService
	Roles       *service.RoleService
	Templates   *service.ShiftTemplateService
	Schedules   *service.ScheduleService
	TimeOff     *service.TimeOffService
	Preferences *service.PreferenceService
	Constraints *service.ConstraintService
	Configs     *service.OptimizationConfigService
	Tokens      ports.TokenIssuer // Required: bearer token verification
	DB          Pinger            // Optional: health check pings the store when set
	Logger      *slog.Logger      // Optional: request and panic logging
}

// NewRouter creates and configures the API router. Reads are open to any
// authenticated user; writes require the manager capability, except filing
// time off for oneself.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	auth := RequireAuth(services.Tokens)
	manager := RequireManager(services.Tokens)

	authHandlers := &AuthHandlers{Svc: services.Auth}
	mux.HandleFunc("POST /api/auth/login", authHandlers.Login)
	mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(authHandlers.Me)))

	registerSchedulingRoutes(mux, &SchedulingHandlers{Svc: services.Scheduling}, gates{Read: auth, Write: manager})
	registerScheduleRoutes(mux, &ScheduleHandlers{Svc: services.Schedules}, gates{Read: auth, Write: manager})
	registerTimeOffRoutes(mux, &TimeOffHandlers{Svc: services.TimeOff}, gates{Read: auth, Write: manager})

	employeeHandlers := &EmployeeHandlers{Svc: services.Employees}
	registerCRUD(mux, crudRoutes{
		Base:    "/api/employees",
		Create:  employeeHandlers.Create,
		List:    employeeHandlers.List,
		GetByID: employeeHandlers.GetByID,
		Update:  employeeHandlers.Update,
		Delete:  employeeHandlers.Delete,
		Gates:   gates{Read: auth, Write: manager},
	})

	roleHandlers := &RoleHandlers{Svc: services.Roles}
	registerCRUD(mux, crudRoutes{
		Base:    "/api/roles",
		Create:  roleHandlers.Create,
		List:    roleHandlers.List,
		GetByID: roleHandlers.GetByID,
		Update:  roleHandlers.Update,
		Delete:  roleHandlers.Delete,
		Gates:   gates{Read: auth, Write: manager},
	})

	templateHandlers := &ShiftTemplateHandlers{Svc: services.Templates}
	registerCRUD(mux, crudRoutes{
		Base:    "/api/shift-templates",
		Create:  templateHandlers.Create,
		List:    templateHandlers.List,
		GetByID: templateHandlers.GetByID,
		Update:  templateHandlers.Update,
		Delete:  templateHandlers.Delete,
		Gates:   gates{Read: auth, Write: manager},
	})

	preferenceHandlers := &PreferenceHandlers{Svc: services.Preferences}
	registerCRUD(mux, crudRoutes{
		Base:    "/api/preferences",
		Create:  preferenceHandlers.Create,
		List:    preferenceHandlers.List,
		GetByID: preferenceHandlers.GetByID,
		Delete:  preferenceHandlers.Delete,
		Gates:   gates{Read: auth, Write: manager},
	})

	constraintHandlers := &ConstraintHandlers{Svc: services.Constraints}
	registerCRUD(mux, crudRoutes{
		Base:    "/api/constraints",
		Create:  constraintHandlers.Create,
		List:    constraintHandlers.List,
		GetByID: constraintHandlers.GetByID,
		Update:  constraintHandlers.Update,
		Delete:  constraintHandlers.Delete,
		Gates:   gates{Read: auth, Write: manager},
	})

	configHandlers := &OptimizationConfigHandlers{Svc: services.Configs}
	// The literal segment outranks the {id} wildcard, so /default resolves here.
	mux.Handle("GET /api/configs/default", auth(http.HandlerFunc(configHandlers.GetDefault)))
	registerCRUD(mux, crudRoutes{
		Base:    "/api/configs",
		Create:  configHandlers.Create,
		List:    configHandlers.List,
		GetByID: configHandlers.GetByID,
		Update:  configHandlers.Update,
		Delete:  configHandlers.Delete,
		Gates:   gates{Read: auth, Write: manager},
	})

	mux.Handle("GET /healthz", &HealthHandler{DB: services.DB})

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Recover(logger)(Logging(logger)(mux))
}

// gates pairs the middleware applied to a resource's read and write routes.
type gates struct {
	Read  func(http.Handler) http.Handler
	Write func(http.Handler) http.Handler
}

func registerSchedulingRoutes(mux *http.ServeMux, h *SchedulingHandlers, g gates) {
	mux.Handle("POST /api/scheduling/optimize", g.Write(http.HandlerFunc(h.Optimize)))
	mux.Handle("GET /api/scheduling/runs/{run_id}/metrics", g.Read(http.HandlerFunc(h.RunMetrics)))
	mux.Handle("GET /api/scheduling/schedules/{schedule_id}/runs", g.Read(http.HandlerFunc(h.ScheduleRuns)))
	mux.Handle("POST /api/scheduling/runs/{run_id}/apply", g.Write(http.HandlerFunc(h.Apply)))
	mux.Handle("POST /api/scheduling/runs/{run_id}/cancel", g.Write(http.HandlerFunc(h.CancelRun)))
	mux.Handle("GET /api/scheduling/queue/stats", g.Read(http.HandlerFunc(h.QueueStats)))
}

func registerScheduleRoutes(mux *http.ServeMux, h *ScheduleHandlers, g gates) {
	registerCRUD(mux, crudRoutes{
		Base:    "/api/schedules",
		Create:  h.Create,
		List:    h.List,
		GetByID: h.GetByID,
		Delete:  h.Delete,
		Gates:   g,
	})
	mux.Handle("POST /api/schedules/{id}/publish", g.Write(http.HandlerFunc(h.Publish)))
	mux.Handle("POST /api/schedules/{id}/archive", g.Write(http.HandlerFunc(h.Archive)))
	mux.Handle("POST /api/schedules/{id}/shifts", g.Write(http.HandlerFunc(h.AddShift)))
	mux.Handle("GET /api/schedules/{id}/shifts", g.Read(http.HandlerFunc(h.ListShifts)))
	mux.Handle("DELETE /api/schedules/{id}/shifts/{shift_id}", g.Write(http.HandlerFunc(h.DeleteShift)))
	mux.Handle("GET /api/schedules/{id}/assignments", g.Read(http.HandlerFunc(h.ListAssignments)))
}

// registerTimeOffRoutes wires time off by hand: creation is open to any
// authenticated user (self-filing), while deciding and deleting stay
// manager-gated like every other write.
func registerTimeOffRoutes(mux *http.ServeMux, h *TimeOffHandlers, g gates) {
	mux.Handle("POST /api/time-off", g.Read(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/time-off", g.Read(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/time-off/{id}", g.Read(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/time-off/{id}/decide", g.Write(http.HandlerFunc(h.Decide)))
	mux.Handle("DELETE /api/time-off/{id}", g.Write(http.HandlerFunc(h.Delete)))
}

// crudRoutes configures registerCRUD for a resource base path. Update is
// optional; the other handlers are required.
type crudRoutes struct {
	Base    string
	Create  http.HandlerFunc
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
	Gates   gates
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil || cfg.List == nil || cfg.GetByID == nil || cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Gates.Read == nil || cfg.Gates.Write == nil {
		panic("registerCRUD: nil gate for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	mux.Handle("POST "+cfg.Base, cfg.Gates.Write(cfg.Create))
	mux.Handle("GET "+cfg.Base, cfg.Gates.Read(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", cfg.Gates.Read(cfg.GetByID))
	if cfg.Update != nil {
		mux.Handle("PUT "+cfg.Base+"/{id}", cfg.Gates.Write(cfg.Update))
	}
	mux.Handle("DELETE "+cfg.Base+"/{id}", cfg.Gates.Write(cfg.Delete))
}
