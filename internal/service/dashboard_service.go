package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/cache"
)

// dashboardCounters are the aggregate queries behind the dashboard.
type dashboardCounters interface {
	Count(ctx context.Context) (int, error)
	CountRecent(ctx context.Context, days int) (int, error)
}

type subscriptionCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type creditCounter interface {
	TotalUsed(ctx context.Context) (int, error)
}

type impersonationCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// DashboardService computes the admin dashboard aggregates, with a short
// Redis cache in front of the database.
type DashboardService struct {
	users         dashboardCounters
	subs          subscriptionCounter
	credits       creditCounter
	impersonation impersonationCounter
	statsCache    *cache.StatsCache
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	users dashboardCounters,
	subs subscriptionCounter,
	credits creditCounter,
	impersonation impersonationCounter,
	statsCache *cache.StatsCache,
) *DashboardService {
	return &DashboardService{
		users:         users,
		subs:          subs,
		credits:       credits,
		impersonation: impersonation,
		statsCache:    statsCache,
	}
}

// Stats returns the dashboard aggregates, serving from cache when fresh.
// Cache failures fall through to the database silently.
func (s *DashboardService) Stats(ctx context.Context) (*cache.DashboardStats, error) {
	if s.statsCache != nil {
		if stats, err := s.statsCache.Get(ctx); err == nil {
			return stats, nil
		}
	}

	stats := &cache.DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.SignupsLast30Days, err = s.users.CountRecent(ctx, 30); err != nil {
		return nil, err
	}
	if stats.ActiveSubscriptions, err = s.subs.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.CreditsUsedTotal, err = s.credits.TotalUsed(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveImpersonation, err = s.impersonation.CountActive(ctx); err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			log.Warn().Err(err).Msg("Failed to cache dashboard stats")
		}
	}
	return stats, nil
}
