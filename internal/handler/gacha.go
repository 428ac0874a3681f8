package handler

import (
	"net/http"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/gacha"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// GachaHandler handles loot box HTTP requests
type GachaHandler struct {
	service gacha.Service
}

// NewGachaHandler creates a new gacha handler
func NewGachaHandler(service gacha.Service) *GachaHandler {
	return &GachaHandler{service: service}
}

// PullHTTPRequest is the body of a single pull
type PullHTTPRequest struct {
	PlayerID  string `json:"player_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	PoolType  string `json:"pool_type" validate:"required,max=64"`
	BannerID  string `json:"banner_id,omitempty" validate:"max=64"`
	AttemptID string `json:"attempt_id,omitempty" validate:"max=128"`
}

// MultiPullHTTPRequest is the body of a batch pull
type MultiPullHTTPRequest struct {
	PlayerID  string `json:"player_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	PoolType  string `json:"pool_type" validate:"required,max=64"`
	Count     int    `json:"count" validate:"required,min=1"`
	BannerID  string `json:"banner_id,omitempty" validate:"max=64"`
	AttemptID string `json:"attempt_id,omitempty" validate:"max=128"`
}

// HandlePull performs one paid draw
// @Summary Pull once
// @Description Charges the pool's single-pull cost and draws one item, applying pity and banner rate-up
// @Tags gacha
// @Accept json
// @Produce json
// @Param request body PullHTTPRequest true "Pull request"
// @Success 200 {object} domain.PullResult
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /gacha/pull [post]
func (h *GachaHandler) HandlePull(w http.ResponseWriter, r *http.Request) {
	var req PullHTTPRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Pull"); err != nil {
		return
	}
	r = r.WithContext(logger.WithPlayerID(r.Context(), req.PlayerID))

	result, err := h.service.Pull(r.Context(), gacha.PullRequest{
		PlayerID:  req.PlayerID,
		PoolType:  req.PoolType,
		BannerID:  req.BannerID,
		AttemptID: req.AttemptID,
	})
	if err != nil {
		respondServiceError(w, r, "Pull", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleMultiPull performs a discounted batch of draws
// @Summary Pull many
// @Description Charges count draws as one purchase; pity updates between draws
// @Tags gacha
// @Accept json
// @Produce json
// @Param request body MultiPullHTTPRequest true "Multi-pull request"
// @Success 200 {object} domain.MultiPullResult
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /gacha/multi-pull [post]
func (h *GachaHandler) HandleMultiPull(w http.ResponseWriter, r *http.Request) {
	var req MultiPullHTTPRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Multi-pull"); err != nil {
		return
	}
	r = r.WithContext(logger.WithPlayerID(r.Context(), req.PlayerID))

	result, err := h.service.MultiPull(r.Context(), gacha.MultiPullRequest{
		PlayerID:  req.PlayerID,
		PoolType:  req.PoolType,
		Count:     req.Count,
		BannerID:  req.BannerID,
		AttemptID: req.AttemptID,
	})
	if err != nil {
		respondServiceError(w, r, "Multi-pull", err)
		return
	}

	logger.FromContext(r.Context()).Debug("Multi-pull served", "count", req.Count)
	respondJSON(w, http.StatusOK, result)
}

// HandleGetOdds discloses a pool's rates
// @Summary Get odds
// @Tags gacha
// @Produce json
// @Param pool query string true "Pool type"
// @Param region query string false "ISO 3166 region code"
// @Success 200 {object} domain.OddsResult
// @Failure 400 {object} ErrorResponse
// @Router /gacha/odds [get]
func (h *GachaHandler) HandleGetOdds(w http.ResponseWriter, r *http.Request) {
	pool, ok := GetQueryParam(r, w, "pool")
	if !ok {
		return
	}
	region := GetOptionalQueryParam(r, "region", "")

	odds, err := h.service.GetOdds(r.Context(), pool, region)
	if err != nil {
		respondServiceError(w, r, "Get odds", err)
		return
	}
	respondJSON(w, http.StatusOK, odds)
}

// HandleGetPity returns a player's pity counters on one pool
// @Summary Get pity ledger
// @Tags gacha
// @Produce json
// @Param player_id query string true "Player ID"
// @Param pool query string true "Pool type"
// @Success 200 {object} domain.PityLedger
// @Failure 400 {object} ErrorResponse
// @Router /gacha/pity [get]
func (h *GachaHandler) HandleGetPity(w http.ResponseWriter, r *http.Request) {
	playerID, ok := GetQueryParam(r, w, "player_id")
	if !ok {
		return
	}
	pool, ok := GetQueryParam(r, w, "pool")
	if !ok {
		return
	}

	ledger, err := h.service.GetPity(r.Context(), playerID, pool)
	if err != nil {
		respondServiceError(w, r, "Get pity", err)
		return
	}
	respondJSON(w, http.StatusOK, ledger)
}

// HistoryResponse wraps a page of pull records
type HistoryResponse struct {
	PlayerID string              `json:"player_id"`
	Records  []domain.PullRecord `json:"records"`
}

// HandleGetHistory lists a player's recent pulls, newest first
// @Summary Pull history
// @Tags gacha
// @Produce json
// @Param player_id query string true "Player ID"
// @Param limit query int false "Max records (default 50, max 500)"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /gacha/history [get]
func (h *GachaHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	playerID, ok := GetQueryParam(r, w, "player_id")
	if !ok {
		return
	}
	limit, ok := GetOptionalIntQueryParam(r, w, "limit", 0)
	if !ok {
		return
	}

	records, err := h.service.History(r.Context(), playerID, limit)
	if err != nil {
		respondServiceError(w, r, "Get history", err)
		return
	}
	respondJSON(w, http.StatusOK, HistoryResponse{PlayerID: playerID, Records: records})
}
