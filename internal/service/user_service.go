package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/repository"
)

type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, filter *repository.UserFilter) (*repository.UserListResult, error)
}

type userCreditStore interface {
	GetBalance(ctx context.Context, userID int64) (*models.CreditBalance, error)
	GetPlan(ctx context.Context, userID int64) (*models.UserPlan, error)
}

type userSubscriptionStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
}

// UserService serves the console's end-user views.
type UserService struct {
	users   userStore
	credits userCreditStore
	subs    userSubscriptionStore
}

// NewUserService constructs a UserService.
func NewUserService(users userStore, credits userCreditStore, subs userSubscriptionStore) *UserService {
	return &UserService{users: users, credits: credits, subs: subs}
}

// List returns users matching the filter with pagination.
func (s *UserService) List(ctx context.Context, filter *repository.UserFilter) (*repository.UserListResult, error) {
	return s.users.List(ctx, filter)
}

// Detail aggregates a user's account, credit balance, plan and subscription.
// Missing credit or plan rows are tolerated; the user row is required.
func (s *UserService) Detail(ctx context.Context, userID int64) (*models.UserDetail, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &models.UserDetail{User: *user}

	if balance, err := s.credits.GetBalance(ctx, userID); err == nil {
		detail.Credits = balance
	} else {
		log.Warn().Err(err).Int64("user_id", userID).Msg("No credit balance for user")
	}
	if plan, err := s.credits.GetPlan(ctx, userID); err == nil {
		detail.Plan = plan
	}

	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail.Subscription = sub

	return detail, nil
}
