package service

import (
	"context"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	Profile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
	Usage(ctx context.Context, userId uuid.UUID) (*dto.UsageResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	billingCfg config.BillingConfig
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, billingCfg config.BillingConfig) IUserService {
	return &userService{
		uowFactory: uowFactory,
		billingCfg: billingCfg,
	}
}

func (s *userService) Profile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	return &dto.UserDTO{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		IsPro:    isSubscriptionActive(user),
	}, nil
}

func (s *userService) Usage(ctx context.Context, userId uuid.UUID) (*dto.UsageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	return &dto.UsageResponse{
		IsPro:        isSubscriptionActive(user),
		MessageCount: int64(user.MessageCount),
		Limit:        s.billingCfg.FreeTierLimit,
	}, nil
}
