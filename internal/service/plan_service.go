package service

import (
	"context"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
)

type planStore interface {
	List(ctx context.Context) ([]models.SubscriptionPlan, error)
}

// PlanService serves the subscription plan catalog.
type PlanService struct {
	plans planStore
}

// NewPlanService constructs a PlanService.
func NewPlanService(plans planStore) *PlanService {
	return &PlanService{plans: plans}
}

// List returns the plan catalog rows.
func (s *PlanService) List(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.plans.List(ctx)
}
