// Package grant converts a drawn item into its economy effect.
package grant

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Compensation is the soft-currency amount paid per rarity when a drawn
// item is already owned.
type Compensation map[domain.Rarity]int64

// Validate checks that every tier in tiers has a positive amount and that
// amounts never decrease as rarity rises.
func (c Compensation) Validate(tiers []domain.Rarity) error {
	for _, r := range tiers {
		if c[r] <= 0 {
			return fmt.Errorf("duplicate compensation for %s must be positive", r)
		}
	}
	var prev int64
	var prevTier domain.Rarity
	for _, r := range domain.RarityLadder {
		amount, ok := c[r]
		if !ok {
			continue
		}
		if amount < prev {
			return fmt.Errorf("duplicate compensation for %s (%d) is below %s (%d)", r, amount, prevTier, prev)
		}
		prev, prevTier = amount, r
	}
	return nil
}

// Resolver applies grants inside the caller's transaction.
type Resolver struct {
	compensation Compensation
}

// NewResolver creates a Resolver.
func NewResolver(compensation Compensation) *Resolver {
	return &Resolver{compensation: compensation}
}

// NoMultiplier leaves currency amounts unchanged.
var NoMultiplier = decimal.NewFromInt(1)

// Apply credits a currency item or adds an inventory item, falling back to
// duplicate compensation. multiplier scales currency amounts only.
func (r *Resolver) Apply(ctx context.Context, tx repository.RewardTx, playerID string, item domain.Item, multiplier decimal.Decimal) (domain.Grant, error) {
	switch {
	case item.Type == domain.ItemTypeJackpot:
		return domain.Grant{}, fmt.Errorf("%w: jackpot item %s must be claimed through the escrow", domain.ErrInternalConsistency, item.ID)

	case item.IsCurrency():
		amount := Scale(item.Amount, multiplier)
		if err := tx.Credit(ctx, playerID, item.Currency, amount); err != nil {
			return domain.Grant{}, fmt.Errorf("failed to credit %s: %w", item.Currency, err)
		}
		return domain.Grant{Kind: domain.GrantCurrency, ItemID: item.ID, Currency: item.Currency, Amount: amount}, nil
	}

	added, err := tx.TryAddItem(ctx, playerID, item.ID)
	if err != nil {
		return domain.Grant{}, fmt.Errorf("failed to add item %s: %w", item.ID, err)
	}
	if added {
		return domain.Grant{Kind: domain.GrantInventory, ItemID: item.ID}, nil
	}

	amount := r.compensation[item.Rarity]
	if amount <= 0 {
		return domain.Grant{}, domain.NewInternalConsistencyError("grant_resolver", "no duplicate compensation for %s", item.Rarity)
	}
	if err := tx.Credit(ctx, playerID, domain.SoftCurrency, amount); err != nil {
		return domain.Grant{}, fmt.Errorf("failed to credit duplicate compensation: %w", err)
	}
	return domain.Grant{Kind: domain.GrantCompensation, ItemID: item.ID, Currency: domain.SoftCurrency, Amount: amount}, nil
}

// ApplyJackpot pays the whole escrow to the player and resets it, as one
// step under the wheel's exclusive lock.
func (r *Resolver) ApplyJackpot(ctx context.Context, tx repository.RewardTx, playerID, wheelID string, now time.Time) (domain.Grant, domain.JackpotPool, error) {
	paid, pool, err := tx.ClaimJackpot(ctx, wheelID, playerID, now)
	if err != nil {
		return domain.Grant{}, domain.JackpotPool{}, fmt.Errorf("failed to claim jackpot: %w", err)
	}
	if err := tx.Credit(ctx, playerID, domain.SoftCurrency, paid); err != nil {
		return domain.Grant{}, domain.JackpotPool{}, fmt.Errorf("failed to credit jackpot: %w", err)
	}
	return domain.Grant{Kind: domain.GrantJackpot, Currency: domain.SoftCurrency, Amount: paid}, pool, nil
}

// Scale multiplies amount, flooring, and never returns less than 1 for a
// positive amount.
func Scale(amount int64, multiplier decimal.Decimal) int64 {
	if amount <= 0 {
		return amount
	}
	scaled := decimal.NewFromInt(amount).Mul(multiplier).Floor().IntPart()
	if scaled < 1 {
		return 1
	}
	return scaled
}
