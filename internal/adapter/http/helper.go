package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loantrack/internal/domain/loan"
	"loantrack/internal/domain/payment"
	"loantrack/internal/remote"
	"loantrack/internal/usecase/acceptance"
	"loantrack/internal/usecase/create"
	"loantrack/internal/usecase/otp"
)

// writeErr maps workflow failures to HTTP codes. Gating failures carry
// routing context in Meta; stale-state conflicts come back as 409 so the
// UI refreshes instead of retrying.
func writeErr(c echo.Context, err error) error {
	var fb *create.FraudBlockedError
	if errors.As(err, &fb) {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error: "fraud risk requires explicit confirmation",
			Meta:  fb.Status,
		})
	}

	var re *remote.Error
	if errors.As(err, &re) {
		switch re.Kind {
		case remote.KindStale:
			return c.JSON(http.StatusConflict, ErrorResponse{Error: re.Message})
		case remote.KindValidation:
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: re.Message})
		case remote.KindNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: re.Message})
		case remote.KindTransport:
			return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream unavailable"})
		default:
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: re.Message})
		}
	}

	switch {
	case errors.Is(err, loan.ErrPlanRequired):
		return c.JSON(http.StatusPaymentRequired, ErrorResponse{
			Error: err.Error(),
			Meta:  map[string]string{"next": "purchase_plan"},
		})
	case errors.Is(err, loan.ErrPlanExpired):
		return c.JSON(http.StatusPaymentRequired, ErrorResponse{
			Error: err.Error(),
			Meta:  map[string]string{"next": "renew_plan"},
		})
	case errors.Is(err, loan.ErrFraudDeclined):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrStale),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, payment.ErrAlreadyResolved),
		errors.Is(err, payment.ErrActionInFlight):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, payment.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, create.ErrNationalIDIncomplete),
		errors.Is(err, create.ErrNonPositiveAmount),
		errors.Is(err, create.ErrEndNotAfterStart),
		errors.Is(err, create.ErrBorrowerNameRequired),
		errors.Is(err, create.ErrBadMode),
		errors.Is(err, payment.ErrNonPositiveAmount),
		errors.Is(err, payment.ErrReasonRequired),
		errors.Is(err, otp.ErrIncompleteCode),
		errors.Is(err, acceptance.ErrBadTarget):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, otp.ErrResendCooldown):
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
