package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/repository"
)

// CheckResult reports one backend function probe.
type CheckResult struct {
	Name      string      `json:"name"`
	Success   bool        `json:"success"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	ElapsedMs int64       `json:"elapsedMs"`
}

// dbPinger is the minimal surface for a connectivity probe.
type dbPinger interface {
	PingContext(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

type stripePinger interface {
	Ping(ctx context.Context) error
}

// DiagnosticsService smoke-tests the platform's backend functions from the
// admin console. It carries no business logic: every check is a thin invoke
// of an existing service plus wall-clock timing.
type DiagnosticsService struct {
	db            dbPinger
	redis         redisPinger
	stripeClient  stripePinger
	permissions   *PermissionService
	audit         *AuditService
	dashboard     *DashboardService
	impersonation impersonationCounter
}

// NewDiagnosticsService constructs a DiagnosticsService. Nil probes are
// reported as skipped rather than failing the whole run.
func NewDiagnosticsService(
	db dbPinger,
	redis redisPinger,
	stripeClient stripePinger,
	permissions *PermissionService,
	audit *AuditService,
	dashboard *DashboardService,
	impersonation impersonationCounter,
) *DiagnosticsService {
	return &DiagnosticsService{
		db:            db,
		redis:         redis,
		stripeClient:  stripeClient,
		permissions:   permissions,
		audit:         audit,
		dashboard:     dashboard,
		impersonation: impersonation,
	}
}

type check struct {
	name string
	fn   func(ctx context.Context) (interface{}, error)
}

// Run fires the fixed check list concurrently and reports every outcome.
// The run itself never fails; individual check failures land in the report.
func (s *DiagnosticsService) Run(ctx context.Context, userID int64) []CheckResult {
	checks := s.buildChecks(userID)

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Add(1)
		go func(i int, c check) {
			defer wg.Done()
			results[i] = runCheck(ctx, c)
		}(i, c)
	}
	wg.Wait()

	for _, r := range results {
		if !r.Success {
			log.Warn().Str("check", r.Name).Str("error", r.Error).Msg("Diagnostic check failed")
		}
	}
	return results
}

func (s *DiagnosticsService) buildChecks(userID int64) []check {
	checks := []check{
		{
			name: "database_ping",
			fn: func(ctx context.Context) (interface{}, error) {
				return "ok", s.db.PingContext(ctx)
			},
		},
		{
			name: "redis_ping",
			fn: func(ctx context.Context) (interface{}, error) {
				return "ok", s.redis.Ping(ctx)
			},
		},
		{
			name: "check_admin_access",
			fn: func(ctx context.Context) (interface{}, error) {
				return s.permissions.Check(ctx, userID), nil
			},
		},
		{
			name: "audit_log_query",
			fn: func(ctx context.Context) (interface{}, error) {
				entries, total, err := s.audit.List(ctx, &repository.AuditFilter{Limit: 5})
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"returned": len(entries), "total": total}, nil
			},
		},
		{
			name: "plan_table_lookup",
			fn: func(ctx context.Context) (interface{}, error) {
				spec, _ := models.PlanByName(models.PlanGrowth)
				return spec, nil
			},
		},
		{
			name: "dashboard_stats",
			fn: func(ctx context.Context) (interface{}, error) {
				return s.dashboard.Stats(ctx)
			},
		},
		{
			name: "active_impersonation_count",
			fn: func(ctx context.Context) (interface{}, error) {
				return s.impersonation.CountActive(ctx)
			},
		},
	}

	if s.stripeClient != nil {
		checks = append(checks, check{
			name: "stripe_connectivity",
			fn: func(ctx context.Context) (interface{}, error) {
				return "ok", s.stripeClient.Ping(ctx)
			},
		})
	}
	return checks
}

func runCheck(ctx context.Context, c check) CheckResult {
	start := time.Now()
	result, err := c.fn(ctx)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return CheckResult{Name: c.name, Success: false, Error: err.Error(), ElapsedMs: elapsed}
	}
	return CheckResult{Name: c.name, Success: true, Result: result, ElapsedMs: elapsed}
}
