package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
)

// User-facing messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgNotEnoughFunds      = "Not enough currency for this purchase"
	ErrMsgAlreadyClaimed      = "Already claimed. Try again later"
	ErrMsgPoolNotFound        = "Pool not found"
	ErrMsgBannerNotFound      = "Banner not found"
	ErrMsgWheelNotFound       = "Wheel not found"
	ErrMsgAttemptConflict     = "attempt_id was already used for a different operation"
	ErrMsgInconsistentRewards = "Reward configuration error"
)

const (
	LogMsgEncodeResponseFailed = "Failed to encode JSON response"
	LogMsgWriteResponseFailed  = "Failed to write response buffer"
)

// Error codes let clients branch without parsing messages
const (
	ErrCodeValidation          = "validation_error"
	ErrCodeInsufficientFunds   = "insufficient_funds"
	ErrCodeAlreadyClaimed      = "already_claimed"
	ErrCodeInternalConsistency = "internal_consistency"
	ErrCodeInternal            = "internal_error"
)

// mapServiceError converts a service error into a status code and body.
// Only typed domain errors expose details; everything else is generic.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgUnknownError, Code: ErrCodeInternal}
	}

	var (
		validation   *domain.ValidationError
		insufficient *domain.InsufficientFundsError
		claimed      *domain.AlreadyClaimedError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{
			Error: validationMessage(validation),
			Code:  ErrCodeValidation,
			Field: validation.Field,
		}

	case errors.As(err, &insufficient):
		return http.StatusPaymentRequired, ErrorResponse{
			Error: ErrMsgNotEnoughFunds,
			Code:  ErrCodeInsufficientFunds,
			Details: map[string]any{
				"currency": insufficient.Currency,
				"need":     insufficient.Need,
				"have":     insufficient.Have,
			},
		}

	case errors.As(err, &claimed):
		return http.StatusConflict, ErrorResponse{
			Error: ErrMsgAlreadyClaimed,
			Code:  ErrCodeAlreadyClaimed,
			Details: map[string]any{
				"action":            claimed.Action,
				"next_available_at": claimed.NextAvailableAt.UTC().Format(time.RFC3339),
			},
		}

	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequestSummary, Code: ErrCodeValidation}

	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, ErrorResponse{Error: ErrMsgNotEnoughFunds, Code: ErrCodeInsufficientFunds}

	case errors.Is(err, domain.ErrInternalConsistency):
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgInconsistentRewards, Code: ErrCodeInternalConsistency}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError, Code: ErrCodeInternal}
}

func validationMessage(v *domain.ValidationError) string {
	switch {
	case errors.Is(v.Err, domain.ErrPoolNotFound):
		return ErrMsgPoolNotFound
	case errors.Is(v.Err, domain.ErrBannerNotFound):
		return ErrMsgBannerNotFound
	case errors.Is(v.Err, domain.ErrWheelNotFound):
		return ErrMsgWheelNotFound
	case errors.Is(v.Err, domain.ErrAttemptConflict):
		return ErrMsgAttemptConflict
	}
	return v.Field + ": " + v.Reason
}

// respondServiceError logs err at a level matching its class and writes
// the mapped response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, body := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err, "code", body.Code)
	} else {
		log.Info(opName+" rejected", "error", err, "code", body.Code)
	}
	respondJSON(w, status, body)
}
