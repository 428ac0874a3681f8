package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/economy"
	"github.com/osse101/RewardEngine_Go/internal/gacha"
	"github.com/osse101/RewardEngine_Go/internal/wheel"
)

type MockGachaService struct {
	mock.Mock
}

func (m *MockGachaService) Pull(ctx context.Context, req gacha.PullRequest) (*domain.PullResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullResult), args.Error(1)
}

func (m *MockGachaService) MultiPull(ctx context.Context, req gacha.MultiPullRequest) (*domain.MultiPullResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MultiPullResult), args.Error(1)
}

func (m *MockGachaService) GetOdds(ctx context.Context, poolType, region string) (*domain.OddsResult, error) {
	args := m.Called(ctx, poolType, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OddsResult), args.Error(1)
}

func (m *MockGachaService) GetPity(ctx context.Context, playerID, poolType string) (domain.PityLedger, error) {
	args := m.Called(ctx, playerID, poolType)
	return args.Get(0).(domain.PityLedger), args.Error(1)
}

func (m *MockGachaService) History(ctx context.Context, playerID string, limit int) ([]domain.PullRecord, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRecord), args.Error(1)
}

type MockWheelService struct {
	mock.Mock
}

func (m *MockWheelService) SpinWheel(ctx context.Context, req wheel.SpinRequest) (*domain.SpinResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinResult), args.Error(1)
}

func (m *MockWheelService) GetJackpot(ctx context.Context, wheelID string) (domain.JackpotPool, error) {
	args := m.Called(ctx, wheelID)
	return args.Get(0).(domain.JackpotPool), args.Error(1)
}

func (m *MockWheelService) EnsureJackpots(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockEconomyService struct {
	mock.Mock
}

func (m *MockEconomyService) Credit(ctx context.Context, req economy.CreditRequest) (domain.Balances, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Balances), args.Error(1)
}
