// Package economy exposes direct currency ledger operations used by
// support tooling and simulations.
package economy

import (
	"context"
	"fmt"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// CreditRequest tops up one balance
type CreditRequest struct {
	PlayerID string
	Currency domain.Currency
	Amount   int64
	Reason   string
}

// Service defines the interface for economy operations
type Service interface {
	Credit(ctx context.Context, req CreditRequest) (domain.Balances, error)
}

type service struct {
	store repository.RewardStore
}

// NewService creates a new economy service
func NewService(store repository.RewardStore) Service {
	return &service{store: store}
}

// Credit adds Amount under the player's lock and returns the new balances.
func (s *service) Credit(ctx context.Context, req CreditRequest) (domain.Balances, error) {
	if err := validateCredit(req); err != nil {
		return nil, err
	}

	tx, err := s.store.BeginPlayerTx(ctx, req.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.Credit(ctx, req.PlayerID, req.Currency, req.Amount); err != nil {
		return nil, err
	}
	balances, err := tx.Balances(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgCredited,
		"player_id", req.PlayerID,
		"currency", req.Currency,
		"amount", req.Amount,
		"reason", req.Reason)
	return balances, nil
}

func validateCredit(req CreditRequest) error {
	switch {
	case req.PlayerID == "":
		return domain.NewValidationError("player_id", "required")
	case req.Currency != domain.CurrencyCoins && req.Currency != domain.CurrencyGems:
		return domain.NewValidationError("currency", fmt.Sprintf("unknown currency %q", req.Currency))
	case req.Amount <= 0:
		return domain.NewValidationError("amount", "must be positive")
	case req.Amount > MaxCreditAmount:
		return domain.NewValidationError("amount", fmt.Sprintf("exceeds maximum %d", MaxCreditAmount))
	}
	return nil
}
