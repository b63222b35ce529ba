package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loantrack/internal/usecase/otp"
)

type OTPHandler struct{ uc *otp.Usecase }

func NewOTPHandler(uc *otp.Usecase) *OTPHandler { return &OTPHandler{uc: uc} }

type verifyOTPReq struct {
	Code string `json:"code" validate:"required,len=4,number"`
}

func (h *OTPHandler) Verify(c echo.Context) error {
	loanID := c.Param("loan_id")
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.uc.Verify(c.Request().Context(), loanID, req.Code)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, viewOf(l, time.Now().UTC()))
}

func (h *OTPHandler) Resend(c echo.Context) error {
	loanID := c.Param("loan_id")
	wait, err := h.uc.Resend(c.Request().Context(), loanID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sent":             true,
		"cooldown_seconds": int(wait.Seconds()),
	})
}

// Skip is also what closing the OTP modal maps to. The loan stays
// pending and can be confirmed later.
func (h *OTPHandler) Skip(c echo.Context) error {
	loanID := c.Param("loan_id")
	if err := h.uc.Skip(c.Request().Context(), loanID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"skipped": true})
}
