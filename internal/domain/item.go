package domain

import (
	"sync"
	"time"
)

// ItemType classifies what a drawn item does to the player's account.
type ItemType string

const (
	ItemTypeCurrency ItemType = "currency"
	ItemTypeCosmetic ItemType = "cosmetic"
	ItemTypeHero     ItemType = "hero"
	ItemTypeJackpot  ItemType = "jackpot"
)

// Currency identifies a balance in the currency ledger.
type Currency string

const (
	CurrencyCoins Currency = "coins" // soft currency
	CurrencyGems  Currency = "gems"  // premium currency
)

// SoftCurrency receives duplicate compensation and jackpot payouts.
const SoftCurrency = CurrencyCoins

// Item is one entry of a reward pool.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     ItemType `json:"type"`
	Rarity   Rarity   `json:"rarity"`
	Currency Currency `json:"currency,omitempty"`
	Amount   int64    `json:"amount,omitempty"`
}

// IsCurrency reports whether the item credits a balance directly.
func (i Item) IsCurrency() bool {
	return i.Type == ItemTypeCurrency
}

// PoolKind separates gacha boxes from wheels.
type PoolKind string

const (
	PoolKindGacha PoolKind = "gacha"
	PoolKindWheel PoolKind = "wheel"
)

// RewardPool is the ordered item set of one box or wheel. Items never
// change after startup; only their availability does.
type RewardPool struct {
	Type  string
	Kind  PoolKind
	items []Item

	mu          sync.RWMutex
	unavailable map[string]bool
}

// NewRewardPool builds a pool from items in catalog order.
func NewRewardPool(poolType string, kind PoolKind, items []Item) *RewardPool {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &RewardPool{
		Type:        poolType,
		Kind:        kind,
		items:       cp,
		unavailable: make(map[string]bool),
	}
}

// Items returns every available item in catalog order.
func (p *RewardPool) Items() []Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Item, 0, len(p.items))
	for _, it := range p.items {
		if !p.unavailable[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// ItemsOfTier returns the available items of one rarity in catalog order.
func (p *RewardPool) ItemsOfTier(r Rarity) []Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Item
	for _, it := range p.items {
		if it.Rarity == r && !p.unavailable[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// Item looks up an item by id regardless of availability.
func (p *RewardPool) Item(id string) (Item, bool) {
	for _, it := range p.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// SetAvailable toggles an item's availability flag.
func (p *RewardPool) SetAvailable(id string, available bool) bool {
	if _, ok := p.Item(id); !ok {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if available {
		delete(p.unavailable, id)
	} else {
		p.unavailable[id] = true
	}
	return true
}

// Banner is a time-boxed rate-up overlay on a gacha pool.
type Banner struct {
	ID              string    `json:"id"`
	PoolType        string    `json:"pool_type"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	FeaturedItemIDs []string  `json:"featured_item_ids"`
	// RateUpShare is the coin-flip success chance in basis points.
	RateUpShare int `json:"rate_up_share"`
}

// Active reports whether now falls inside the banner window.
func (b *Banner) Active(now time.Time) bool {
	return b != nil && !now.Before(b.StartsAt) && now.Before(b.EndsAt)
}

// Features reports whether itemID is featured by the banner.
func (b *Banner) Features(itemID string) bool {
	if b == nil {
		return false
	}
	for _, id := range b.FeaturedItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}
