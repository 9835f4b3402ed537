package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
)

type fakePinger struct{ err error }

func (f *fakePinger) PingContext(_ context.Context) error { return f.err }
func (f *fakePinger) Ping(_ context.Context) error        { return f.err }

type fakeCounters struct {
	total  int
	recent int
	active int
	used   int
	err    error
}

func (f *fakeCounters) Count(_ context.Context) (int, error)            { return f.total, f.err }
func (f *fakeCounters) CountRecent(_ context.Context, _ int) (int, error) { return f.recent, f.err }
func (f *fakeCounters) CountActive(_ context.Context) (int, error)      { return f.active, f.err }
func (f *fakeCounters) TotalUsed(_ context.Context) (int, error)        { return f.used, f.err }

func diagnosticsFixture(dbErr, redisErr error) *DiagnosticsService {
	counters := &fakeCounters{total: 10, recent: 3, active: 2, used: 120}
	dashboard := NewDashboardService(counters, counters, counters, counters, nil)
	perms := NewPermissionService(&fakeAdminLookup{admins: map[int64]*models.AdminUser{
		42: {ID: 7, UserID: 42, Role: models.RoleAdmin, IsActive: true},
	}})
	audit := NewAuditService(&fakeAuditStore{})

	return NewDiagnosticsService(
		&fakePinger{err: dbErr},
		&fakePinger{err: redisErr},
		nil,
		perms,
		audit,
		dashboard,
		counters,
	)
}

func resultByName(t *testing.T, results []CheckResult, name string) CheckResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("check %s missing from results", name)
	return CheckResult{}
}

func TestRunReportsAllChecks(t *testing.T) {
	svc := diagnosticsFixture(nil, nil)

	results := svc.Run(context.Background(), 42)

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		assert.True(t, r.Success, "check %s should pass", r.Name)
		assert.GreaterOrEqual(t, r.ElapsedMs, int64(0))
	}
	assert.ElementsMatch(t, []string{
		"database_ping",
		"redis_ping",
		"check_admin_access",
		"audit_log_query",
		"plan_table_lookup",
		"dashboard_stats",
		"active_impersonation_count",
	}, names)

	access, ok := resultByName(t, results, "check_admin_access").Result.(models.AccessCheck)
	require.True(t, ok)
	assert.True(t, access.IsAdmin)
}

func TestRunSurvivesFailingProbes(t *testing.T) {
	svc := diagnosticsFixture(errors.New("connection refused"), errors.New("redis down"))

	results := svc.Run(context.Background(), 42)

	db := resultByName(t, results, "database_ping")
	assert.False(t, db.Success)
	assert.Contains(t, db.Error, "connection refused")

	redis := resultByName(t, results, "redis_ping")
	assert.False(t, redis.Success)

	// Independent checks still report their own outcome.
	assert.True(t, resultByName(t, results, "plan_table_lookup").Success)
	assert.True(t, resultByName(t, results, "check_admin_access").Success)
}
