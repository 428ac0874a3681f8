// Package draw runs one resolve, sample, pity, grant and record cycle
// inside a player transaction. Gacha pulls and wheel spins share it.
package draw

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/pity"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/sampler"
)

// Request describes one draw.
type Request struct {
	PlayerID string
	Pool     *domain.RewardPool
	Base     domain.RarityTable
	Rules    domain.PityRules
	Banner   *domain.Banner
	// WheelID names the escrow that jackpot items claim.
	WheelID    string
	Multiplier decimal.Decimal
	AttemptID  string
	PullIndex  int
	Now        time.Time
}

// Result is the outcome of one draw plus the state it left behind.
type Result struct {
	Outcome domain.DrawOutcome
	Ledger  domain.PityLedger
	// Jackpot is set when the draw claimed an escrow.
	Jackpot *domain.JackpotPool
}

// Executor wires the sampler and grant resolver together.
type Executor struct {
	sampler *sampler.Sampler
	grants  *grant.Resolver
	newID   func() string
}

// NewExecutor creates an Executor.
func NewExecutor(s *sampler.Sampler, g *grant.Resolver) *Executor {
	return &Executor{sampler: s, grants: g, newID: uuid.NewString}
}

// Execute performs one draw against ledger. The caller persists the
// returned ledger; the pull record is appended here.
func (e *Executor) Execute(ctx context.Context, tx repository.RewardTx, ledger domain.PityLedger, req Request) (Result, error) {
	adj, err := rarity.Resolve(req.Base, req.Rules, ledger)
	if err != nil {
		return Result{}, err
	}

	banner := req.Banner
	if !banner.Active(req.Now) {
		banner = nil
	}

	d, err := e.sampler.Draw(ctx, adj.Table, req.Pool, banner, req.Now)
	if err != nil {
		return Result{}, err
	}

	next, triggered := ledger, false
	if req.Rules.Enabled() {
		next, triggered = pity.Advance(ledger, d.Rarity, req.Rules, adj, req.Now)
	}

	res := Result{Ledger: next}
	var g domain.Grant
	if d.Item.Type == domain.ItemTypeJackpot {
		if req.WheelID == "" {
			return Result{}, domain.NewInternalConsistencyError("draw", "jackpot item %s drawn outside a wheel", d.Item.ID)
		}
		var pool domain.JackpotPool
		g, pool, err = e.grants.ApplyJackpot(ctx, tx, req.PlayerID, req.WheelID, req.Now)
		if err != nil {
			return Result{}, err
		}
		g.ItemID = d.Item.ID
		res.Jackpot = &pool
	} else {
		multiplier := req.Multiplier
		if multiplier.IsZero() {
			multiplier = grant.NoMultiplier
		}
		g, err = e.grants.Apply(ctx, tx, req.PlayerID, d.Item, multiplier)
		if err != nil {
			return Result{}, err
		}
	}

	record := domain.PullRecord{
		ID:               e.newID(),
		PlayerID:         req.PlayerID,
		PoolType:         req.Pool.Type,
		ItemID:           d.Item.ID,
		Rarity:           d.Rarity,
		WasFeatured:      d.WasFeatured,
		PullIndex:        req.PullIndex,
		WasPityTriggered: triggered,
		AttemptID:        req.AttemptID,
		CreatedAt:        req.Now,
	}
	if banner != nil {
		id := banner.ID
		record.BannerID = &id
	}
	if err := tx.AppendPullRecord(ctx, record); err != nil {
		return Result{}, fmt.Errorf("failed to append pull record: %w", err)
	}

	res.Outcome = domain.DrawOutcome{
		Item:             d.Item,
		Rarity:           d.Rarity,
		WasFeatured:      d.WasFeatured,
		WasPityTriggered: triggered,
		PullIndex:        req.PullIndex,
		Grant:            g,
	}
	return res, nil
}
