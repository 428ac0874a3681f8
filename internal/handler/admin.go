package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/economy"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// CreditHTTPRequest tops up a player's balance
type CreditHTTPRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Currency string `json:"currency" validate:"required,currency"`
	Amount   int64  `json:"amount" validate:"required,min=1"`
	Reason   string `json:"reason,omitempty" validate:"max=256"`
}

// CreditResponse reports the balances after a credit
type CreditResponse struct {
	PlayerID string          `json:"player_id"`
	Balances domain.Balances `json:"balances"`
}

// HandleAdminCredit credits currency to a player (admin only)
// @Summary Credit a balance
// @Description Adds coins or gems to a player, for support and testing
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreditHTTPRequest true "Credit request"
// @Success 200 {object} CreditResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/credit [post]
// @Security ApiKeyAuth
func HandleAdminCredit(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreditHTTPRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Admin credit"); err != nil {
			return
		}
		r = r.WithContext(logger.WithPlayerID(r.Context(), req.PlayerID))

		balances, err := svc.Credit(r.Context(), economy.CreditRequest{
			PlayerID: req.PlayerID,
			Currency: domain.Currency(strings.ToLower(req.Currency)),
			Amount:   req.Amount,
			Reason:   req.Reason,
		})
		if err != nil {
			respondServiceError(w, r, "Admin credit", err)
			return
		}

		respondJSON(w, http.StatusOK, CreditResponse{PlayerID: req.PlayerID, Balances: balances})
	}
}
