package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// creditStore is the store surface the adjuster needs. Mutating methods
// write the audit entry in the same transaction as the mutation.
type creditStore interface {
	GetBalance(ctx context.Context, userID int64) (*models.CreditBalance, error)
	GetPlan(ctx context.Context, userID int64) (*models.UserPlan, error)
	AdjustWithAudit(ctx context.Context, userID int64, delta int, entry *models.AuditEntry) (*models.CreditBalance, error)
	ChangePlanWithAudit(ctx context.Context, userID int64, spec models.PlanSpec, entry *models.AuditEntry) error
}

// CreditService mutates user credit counters and plan assignments on behalf
// of console admins.
type CreditService struct {
	store creditStore
}

// NewCreditService constructs a CreditService.
func NewCreditService(store creditStore) *CreditService {
	return &CreditService{store: store}
}

// GetBalance returns the credit balance for a user.
func (s *CreditService) GetBalance(ctx context.Context, userID int64) (*models.CreditBalance, error) {
	return s.store.GetBalance(ctx, userID)
}

// GetPlan returns the plan assignment for a user.
func (s *CreditService) GetPlan(ctx context.Context, userID int64) (*models.UserPlan, error) {
	return s.store.GetPlan(ctx, userID)
}

// AdjustCredits applies a delta to a user's used counter, floored at zero,
// and records the action. The counter update and the audit entry commit in
// one transaction.
func (s *CreditService) AdjustCredits(ctx context.Context, actorAdminID, userID int64, delta int, reason string) (*models.CreditBalance, error) {
	entry := &models.AuditEntry{
		ActorAdminID: actorAdminID,
		TargetUserID: &userID,
		Action:       models.AuditCreditsAdjusted,
		Details: models.AuditDetails{
			"delta":  delta,
			"reason": reason,
		},
	}

	balance, err := s.store.AdjustWithAudit(ctx, userID, delta, entry)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("admin_id", actorAdminID).
		Int64("user_id", userID).
		Int("delta", delta).
		Int("credits_used", balance.CreditsUsed).
		Msg("Credits adjusted")

	return balance, nil
}

// ChangePlan assigns a plan tier from the fixed table, overwriting the
// user's tier, seat count, and credit limit. Unknown plan names fail hard
// before any write happens.
func (s *CreditService) ChangePlan(ctx context.Context, actorAdminID, userID int64, planName string) (*models.PlanSpec, error) {
	spec, ok := models.PlanByName(planName)
	if !ok {
		return nil, utils.ErrUnknownPlan
	}

	entry := &models.AuditEntry{
		ActorAdminID: actorAdminID,
		TargetUserID: &userID,
		Action:       models.AuditPlanChanged,
		Details: models.AuditDetails{
			"plan":         spec.Name,
			"creditsLimit": spec.CreditsLimit,
			"seatCount":    spec.SeatCount,
		},
	}

	if err := s.store.ChangePlanWithAudit(ctx, userID, spec, entry); err != nil {
		return nil, err
	}

	log.Info().
		Int64("admin_id", actorAdminID).
		Int64("user_id", userID).
		Str("plan", spec.Name).
		Msg("Plan changed")

	return &spec, nil
}
