package gacha

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Price returns what count draws from pool cost. Batches of at least
// DiscountMinCount get the multi-pull discount, rounded half-up.
func Price(pool *catalog.GachaPool, count int) domain.Cost {
	total := decimal.NewFromInt(pool.Cost.Amount).Mul(decimal.NewFromInt(int64(count)))
	if pool.DiscountMinCount > 0 && count >= pool.DiscountMinCount && pool.MultiPullDiscount.IsPositive() {
		total = total.Mul(decimal.NewFromInt(1).Sub(pool.MultiPullDiscount))
	}
	return domain.Cost{Currency: pool.Cost.Currency, Amount: total.Round(0).IntPart()}
}
