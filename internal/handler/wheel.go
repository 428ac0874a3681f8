package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/wheel"
)

// WheelHandler handles fortune wheel HTTP requests
type WheelHandler struct {
	service wheel.Service
}

// NewWheelHandler creates a new wheel handler
func NewWheelHandler(service wheel.Service) *WheelHandler {
	return &WheelHandler{service: service}
}

// SpinHTTPRequest is the body of a wheel spin
type SpinHTTPRequest struct {
	PlayerID  string `json:"player_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	WheelID   string `json:"wheel_id" validate:"required,max=64"`
	SpinType  string `json:"spin_type" validate:"required,spintype"`
	AttemptID string `json:"attempt_id,omitempty" validate:"max=128"`
}

// HandleSpin spins a wheel
// @Summary Spin the wheel
// @Description Premium spins pay and feed the jackpot; free spins are daily and build a streak bonus
// @Tags wheel
// @Accept json
// @Produce json
// @Param request body SpinHTTPRequest true "Spin request"
// @Success 200 {object} domain.SpinResult
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /wheel/spin [post]
func (h *WheelHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	var req SpinHTTPRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Spin"); err != nil {
		return
	}
	r = r.WithContext(logger.WithPlayerID(r.Context(), req.PlayerID))

	result, err := h.service.SpinWheel(r.Context(), wheel.SpinRequest{
		PlayerID:  req.PlayerID,
		WheelID:   req.WheelID,
		SpinType:  domain.SpinType(strings.ToLower(req.SpinType)),
		AttemptID: req.AttemptID,
	})
	if err != nil {
		respondServiceError(w, r, "Spin", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleGetJackpot returns a wheel's current escrow
// @Summary Jackpot snapshot
// @Tags wheel
// @Produce json
// @Param wheel query string true "Wheel ID"
// @Success 200 {object} domain.JackpotPool
// @Failure 400 {object} ErrorResponse
// @Router /wheel/jackpot [get]
func (h *WheelHandler) HandleGetJackpot(w http.ResponseWriter, r *http.Request) {
	wheelID, ok := GetQueryParam(r, w, "wheel")
	if !ok {
		return
	}

	pool, err := h.service.GetJackpot(r.Context(), wheelID)
	if err != nil {
		respondServiceError(w, r, "Get jackpot", err)
		return
	}
	respondJSON(w, http.StatusOK, pool)
}
