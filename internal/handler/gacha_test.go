package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/gacha"
)

func TestHandlePull(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockGachaService)
		want := gacha.PullRequest{PlayerID: "p1", PoolType: "standard", AttemptID: "a1"}
		svc.On("Pull", mock.Anything, want).Return(&domain.PullResult{
			DrawOutcome: domain.DrawOutcome{Rarity: domain.RarityEpic},
			Pity:        domain.PityLedger{PlayerID: "p1", LegendaryPity: 10},
		}, nil)

		body := `{"player_id":"p1","pool_type":"standard","attempt_id":"a1"}`
		req := httptest.NewRequest(http.MethodPost, "/gacha/pull", strings.NewReader(body))
		w := httptest.NewRecorder()

		NewGachaHandler(svc).HandlePull(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got domain.PullResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, domain.RarityEpic, got.Rarity)
		assert.Equal(t, 10, got.Pity.LegendaryPity)
		svc.AssertExpectations(t)
	})

	t.Run("insufficient funds is 402", func(t *testing.T) {
		svc := new(MockGachaService)
		svc.On("Pull", mock.Anything, mock.Anything).
			Return(nil, &domain.InsufficientFundsError{Currency: domain.CurrencyGems, Need: 160, Have: 0})

		req := httptest.NewRequest(http.MethodPost, "/gacha/pull", strings.NewReader(`{"player_id":"p1","pool_type":"standard"}`))
		w := httptest.NewRecorder()

		NewGachaHandler(svc).HandlePull(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Contains(t, w.Body.String(), ErrCodeInsufficientFunds)
	})

	t.Run("missing player is 400 before the service", func(t *testing.T) {
		svc := new(MockGachaService)

		req := httptest.NewRequest(http.MethodPost, "/gacha/pull", strings.NewReader(`{"pool_type":"standard"}`))
		w := httptest.NewRecorder()

		NewGachaHandler(svc).HandlePull(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "This field is required", got.Fields["player_id"])
		svc.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		svc := new(MockGachaService)

		req := httptest.NewRequest(http.MethodPost, "/gacha/pull", strings.NewReader(`{"player_id":"p1","pool_type":"standard","luck":99}`))
		w := httptest.NewRecorder()

		NewGachaHandler(svc).HandlePull(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleMultiPull(t *testing.T) {
	t.Run("count below one", func(t *testing.T) {
		svc := new(MockGachaService)

		req := httptest.NewRequest(http.MethodPost, "/gacha/multi-pull", strings.NewReader(`{"player_id":"p1","pool_type":"standard","count":0}`))
		w := httptest.NewRecorder()

		NewGachaHandler(svc).HandleMultiPull(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"count"`)
	})

	t.Run("service validation maps to 400", func(t *testing.T) {
		svc := new(MockGachaService)
		svc.On("MultiPull", mock.Anything, gacha.MultiPullRequest{PlayerID: "p1", PoolType: "standard", Count: 11}).
			Return(nil, domain.NewValidationError("count", "must be between 1 and 10"))

		req := httptest.NewRequest(http.MethodPost, "/gacha/multi-pull", strings.NewReader(`{"player_id":"p1","pool_type":"standard","count":11}`))
		w := httptest.NewRecorder()

		NewGachaHandler(svc).HandleMultiPull(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "count", got.Field)
	})
}

func TestHandleGetOdds(t *testing.T) {
	t.Run("requires pool", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewGachaHandler(new(MockGachaService)).HandleGetOdds(w, httptest.NewRequest(http.MethodGet, "/gacha/odds", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes region through", func(t *testing.T) {
		svc := new(MockGachaService)
		svc.On("GetOdds", mock.Anything, "standard", "kr").Return(&domain.OddsResult{
			PoolType:                 "standard",
			Region:                   "KR",
			RatesTable:               map[domain.Rarity]string{domain.RarityLegendary: "0.5%"},
			RegionRequiresDisclosure: true,
		}, nil)

		w := httptest.NewRecorder()
		NewGachaHandler(svc).HandleGetOdds(w, httptest.NewRequest(http.MethodGet, "/gacha/odds?pool=standard&region=kr", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got domain.OddsResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.RegionRequiresDisclosure)
		assert.Equal(t, "0.5%", got.RatesTable[domain.RarityLegendary])
	})
}

func TestHandleGetHistory(t *testing.T) {
	t.Run("invalid limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewGachaHandler(new(MockGachaService)).HandleGetHistory(w, httptest.NewRequest(http.MethodGet, "/gacha/history?player_id=p1&limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists records", func(t *testing.T) {
		svc := new(MockGachaService)
		svc.On("History", mock.Anything, "p1", 5).Return([]domain.PullRecord{{ID: "r2"}, {ID: "r1"}}, nil)

		w := httptest.NewRecorder()
		NewGachaHandler(svc).HandleGetHistory(w, httptest.NewRequest(http.MethodGet, "/gacha/history?player_id=p1&limit=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got HistoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got.Records, 2)
		assert.Equal(t, "r2", got.Records[0].ID)
	})
}

func TestHandleGetPity(t *testing.T) {
	svc := new(MockGachaService)
	svc.On("GetPity", mock.Anything, "p1", "standard").Return(domain.PityLedger{PlayerID: "p1", PoolType: "standard", EpicPity: 4}, nil)

	w := httptest.NewRecorder()
	NewGachaHandler(svc).HandleGetPity(w, httptest.NewRequest(http.MethodGet, "/gacha/pity?player_id=p1&pool=standard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"epic_pity":4`)
	assert.Contains(t, w.Body.String(), `"pool_type":"standard"`)

	w = httptest.NewRecorder()
	NewGachaHandler(svc).HandleGetPity(w, httptest.NewRequest(http.MethodGet, "/gacha/pity?player_id=p1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "GetPity", 1)
}
