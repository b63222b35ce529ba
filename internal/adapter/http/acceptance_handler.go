package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loantrack/internal/domain/loan"
	"loantrack/internal/usecase/acceptance"
)

type AcceptanceHandler struct{ uc *acceptance.Usecase }

func NewAcceptanceHandler(uc *acceptance.Usecase) *AcceptanceHandler {
	return &AcceptanceHandler{uc: uc}
}

type acceptanceReq struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

func (h *AcceptanceHandler) Update(c echo.Context) error {
	loanID := c.Param("loan_id")
	var req acceptanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.uc.Update(c.Request().Context(), loanID, loan.AcceptanceStatus(req.Status))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, viewOf(l, time.Now().UTC()))
}
