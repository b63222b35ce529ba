package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loantrack/internal/domain/fraud"
	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
	"loantrack/internal/usecase/create"
	"loantrack/internal/usecase/lists"
)

// loanView attaches the derived status every screen shows; raw fields
// ride along unchanged.
type loanView struct {
	*loan.Loan
	Derived loan.Derived `json:"derived"`
}

func viewOf(l *loan.Loan, now time.Time) loanView {
	return loanView{Loan: l, Derived: loan.Derive(l, now)}
}

func viewsOf(ls []*loan.Loan, now time.Time) []loanView {
	out := make([]loanView, 0, len(ls))
	for _, l := range ls {
		out = append(out, viewOf(l, now))
	}
	return out
}

type LoanHandler struct {
	create *create.Usecase
	lists  *lists.Usecase
}

func NewLoanHandler(cr *create.Usecase, ls *lists.Usecase) *LoanHandler {
	return &LoanHandler{create: cr, lists: ls}
}

type createLoanReq struct {
	BorrowerName       string  `json:"borrower_name"        validate:"required"`
	BorrowerMobile     string  `json:"borrower_mobile"      validate:"required"`
	BorrowerNationalID string  `json:"borrower_national_id" validate:"required,natid12"`
	Amount             float64 `json:"amount"               validate:"required,gt=0,dec2"`
	Purpose            string  `json:"purpose"`
	StartDate          string  `json:"start_date"           validate:"required,datetime=2006-01-02"`
	EndDate            string  `json:"end_date"             validate:"required,datetime=2006-01-02"`
	Mode               string  `json:"mode"                 validate:"required,paymode"`
	// The operator saw the fraud warning and chose to proceed anyway.
	OverrideFraud bool `json:"override_fraud"`
}

type createLoanResp struct {
	Loan         loanView             `json:"loan"`
	GatewayOrder *remote.GatewayOrder `json:"gateway_order,omitempty"`
	FraudWarning string               `json:"fraud_warning,omitempty"`
	Outcome      create.Outcome       `json:"outcome"`
	OTPSent      bool                 `json:"otp_sent"`
	// Set when the loan was created but gateway verification failed; the
	// UI routes to the loan list with this message.
	VerifyError string `json:"verify_error,omitempty"`
}

// CreateLoan runs the creation gate. Without override_fraud a non-low
// risk stops at 409 with the fraud status in meta; the UI prompts and
// re-submits the same form data with the flag set.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	in := create.Input{
		BorrowerName:       req.BorrowerName,
		BorrowerMobile:     req.BorrowerMobile,
		BorrowerNationalID: req.BorrowerNationalID,
		Amount:             decimal.NewFromFloat(req.Amount),
		Purpose:            req.Purpose,
		StartDate:          start,
		EndDate:            end,
		Mode:               loan.PaymentMode(req.Mode),
	}

	hooks := create.Hooks{}
	if req.OverrideFraud {
		hooks.ConfirmFraud = func(context.Context, *fraud.Status) (bool, error) { return true, nil }
	}

	res, err := h.create.Run(c.Request().Context(), in, hooks)
	if err != nil && res == nil {
		return writeErr(c, err)
	}

	now := time.Now().UTC()
	resp := createLoanResp{
		Loan:         viewOf(res.Loan, now),
		GatewayOrder: res.GatewayOrder,
		FraudWarning: res.FraudWarning,
		Outcome:      res.Outcome,
		OTPSent:      res.OTPSent,
	}
	if err != nil {
		// Loan exists but the gateway payment is unresolved. Still 201;
		// the outcome tells the UI to route to the loan list.
		resp.VerifyError = err.Error()
	}
	return c.JSON(http.StatusCreated, resp)
}

// FraudPrecheck is called while the lender types, as soon as the national
// ID is complete.
func (h *LoanHandler) FraudPrecheck(c echo.Context) error {
	nationalID := c.Param("national_id")
	st, err := h.create.Precheck(c.Request().Context(), nationalID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

type verifyPaymentReq struct {
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	GatewayOrderID   string `json:"gateway_order_id"   validate:"required"`
	Signature        string `json:"signature"          validate:"required"`
}

// VerifyPayment completes an online creation after checkout.
func (h *LoanHandler) VerifyPayment(c echo.Context) error {
	loanID := c.Param("loan_id")
	var req verifyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.create.VerifyPayment(c.Request().Context(), loanID, remote.GatewayReceipt{
		GatewayPaymentID: req.GatewayPaymentID,
		GatewayOrderID:   req.GatewayOrderID,
		Signature:        req.Signature,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, viewOf(l, time.Now().UTC()))
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func viewParam(c echo.Context) store.View {
	if c.Param("view") == string(store.ViewTaken) {
		return store.ViewTaken
	}
	return store.ViewGiven
}

// ListLoans refreshes a view from the backend; ?cached=true serves the
// last-written snapshot instead.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	v := viewParam(c)
	now := time.Now().UTC()

	if c.QueryParam("cached") == "true" {
		return c.JSON(http.StatusOK, viewsOf(h.lists.Cached(v), now))
	}

	page, limit := pageParams(c)
	loans, err := h.lists.Refresh(c.Request().Context(), v, page, limit)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, viewsOf(loans, now))
}
