package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/economy"
)

func TestHandleAdminCredit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockEconomyService)
		svc.On("Credit", mock.Anything, economy.CreditRequest{PlayerID: "p1", Currency: domain.CurrencyGems, Amount: 1600, Reason: "refund"}).
			Return(domain.Balances{domain.CurrencyGems: 1600}, nil)

		body := `{"player_id":"p1","currency":"GEMS","amount":1600,"reason":"refund"}`
		w := httptest.NewRecorder()
		HandleAdminCredit(svc)(w, httptest.NewRequest(http.MethodPost, "/admin/credit", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"gems":1600`)
		svc.AssertExpectations(t)
	})

	t.Run("unknown currency", func(t *testing.T) {
		svc := new(MockEconomyService)

		body := `{"player_id":"p1","currency":"gold","amount":5}`
		w := httptest.NewRecorder()
		HandleAdminCredit(svc)(w, httptest.NewRequest(http.MethodPost, "/admin/credit", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid currency")
		svc.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
	})
}
