//go:build staging

package staging

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pullResponse struct {
	Rarity string `json:"rarity"`
	Pity   struct {
		EpicPity      int `json:"epic_pity"`
		LegendaryPity int `json:"legendary_pity"`
	} `json:"pity"`
	Balances map[string]int64 `json:"balances"`
}

func TestOdds(t *testing.T) {
	var odds struct {
		RatesTable map[string]string `json:"rates_table"`
	}
	api.expect(t, http.StatusOK, http.MethodGet, "/api/v1/gacha/odds?pool=standard&region=KR", nil, &odds)
	assert.NotEmpty(t, odds.RatesTable)
}

func TestPullFlow(t *testing.T) {
	player := fmt.Sprintf("staging-%d", time.Now().UnixNano())
	pull := map[string]string{"player_id": player, "pool_type": "standard"}

	api.expect(t, http.StatusPaymentRequired, http.MethodPost, "/api/v1/gacha/pull", pull, nil)

	api.expect(t, http.StatusOK, http.MethodPost, "/api/v1/admin/credit", map[string]any{
		"player_id": player, "currency": "gems", "amount": 1600, "reason": "staging smoke test",
	}, nil)

	pull["attempt_id"] = player + "-a1"
	var first, replay pullResponse
	api.expect(t, http.StatusOK, http.MethodPost, "/api/v1/gacha/pull", pull, &first)
	api.expect(t, http.StatusOK, http.MethodPost, "/api/v1/gacha/pull", pull, &replay)

	assert.Equal(t, first, replay, "a replayed attempt returns the original result")
}

func TestJackpotSnapshot(t *testing.T) {
	var pool struct {
		CurrentAmount int64 `json:"current_amount"`
		BaseAmount    int64 `json:"base_amount"`
	}
	api.expect(t, http.StatusOK, http.MethodGet, "/api/v1/wheel/jackpot?wheel=fortune", nil, &pool)
	assert.GreaterOrEqual(t, pool.CurrentAmount, pool.BaseAmount)
}
