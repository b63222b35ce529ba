package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	uc "loantrack/internal/usecase/payment"
)

type PaymentHandler struct{ uc *uc.Usecase }

func NewPaymentHandler(u *uc.Usecase) *PaymentHandler { return &PaymentHandler{uc: u} }

type submitPaymentReq struct {
	Amount         float64 `json:"amount"          validate:"required,gt=0,dec2"`
	Mode           string  `json:"mode"            validate:"required,paymode"`
	TransactionRef string  `json:"transaction_ref"`
	ProofURL       string  `json:"proof_url"`
	Note           string  `json:"note"`
}

func (h *PaymentHandler) Submit(c echo.Context) error {
	loanID := c.Param("loan_id")
	var req submitPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	p, err := h.uc.Submit(c.Request().Context(), uc.SubmitInput{
		LoanID:         loanID,
		Amount:         decimal.NewFromFloat(req.Amount),
		Mode:           loan.PaymentMode(req.Mode),
		TransactionRef: req.TransactionRef,
		ProofURL:       req.ProofURL,
		Note:           req.Note,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) Pending(c echo.Context) error {
	page, limit := pageParams(c)
	out, err := h.uc.Pending(c.Request().Context(), page, limit)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type confirmPaymentReq struct {
	Note string `json:"note"`
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	loanID := c.Param("loan_id")
	paymentID := c.Param("payment_id")
	var req confirmPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res, err := h.uc.Confirm(c.Request().Context(), loanID, paymentID, req.Note)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, resolutionResp(res))
}

type rejectPaymentReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *PaymentHandler) Reject(c echo.Context) error {
	loanID := c.Param("loan_id")
	paymentID := c.Param("payment_id")
	var req rejectPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Reject(c.Request().Context(), loanID, paymentID, req.Reason)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, resolutionResp(res))
}

// resolutionResp tolerates a reject result without a loan payload; the
// aggregates were untouched so the server may omit it.
func resolutionResp(res *remote.Resolution) map[string]any {
	out := map[string]any{"payment": res.Payment}
	if res.Loan != nil {
		out["loan"] = viewOf(res.Loan, time.Now().UTC())
	}
	return out
}

// MarkPaid is the lender marking a fully settled cash loan.
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	loanID := c.Param("loan_id")
	l, err := h.uc.MarkPaid(c.Request().Context(), loanID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, viewOf(l, time.Now().UTC()))
}
