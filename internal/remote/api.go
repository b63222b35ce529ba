// Package remote wraps the upstream loan API. Transport framing, auth
// headers and retries belong to the upstream service contract; this
// package only shapes requests and folds responses into domain types.
package remote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"loantrack/internal/domain/fraud"
	"loantrack/internal/domain/loan"
	"loantrack/internal/domain/payment"
)

// Role selects which side of a loan relationship a list call is for.
type Role string

const (
	RoleLender   Role = "lender"
	RoleBorrower Role = "borrower"
)

type PlanStatus struct {
	HasActivePlan bool `json:"has_active_plan"`
	RemainingDays int  `json:"remaining_days"`
}

type CreateLoanRequest struct {
	BorrowerName       string           `json:"borrower_name"`
	BorrowerMobile     string           `json:"borrower_mobile"`
	BorrowerNationalID string           `json:"borrower_national_id"`
	Amount             decimal.Decimal  `json:"amount"`
	Purpose            string           `json:"purpose"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	Mode               loan.PaymentMode `json:"mode"`
}

// GatewayOrder is returned only for online-mode creations; the UI opens
// checkout against it.
type GatewayOrder struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type CreateLoanResult struct {
	Loan         *loan.Loan    `json:"loan"`
	GatewayOrder *GatewayOrder `json:"gateway_order,omitempty"`
	FraudWarning string        `json:"fraud_warning,omitempty"`
}

// GatewayReceipt is what a completed checkout hands back for server-side
// verification.
type GatewayReceipt struct {
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	Signature        string `json:"signature"`
}

type SubmitPaymentRequest struct {
	LoanID         string           `json:"loan_id"`
	Amount         decimal.Decimal  `json:"amount"`
	Mode           loan.PaymentMode `json:"mode"`
	TransactionRef string           `json:"transaction_ref,omitempty"`
	ProofURL       string           `json:"proof_url,omitempty"`
	Note           string           `json:"note,omitempty"`
}

// PendingLoan pairs a loan with its unresolved payments for the lender's
// review queue.
type PendingLoan struct {
	Loan     *loan.Loan         `json:"loan"`
	Payments []*payment.Payment `json:"payments"`
}

type PendingPage struct {
	Items      []*PendingLoan `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// Resolution is the outcome of a confirm or reject: the terminal payment
// plus the loan with server-recomputed aggregates.
type Resolution struct {
	Payment *payment.Payment `json:"payment"`
	Loan    *loan.Loan       `json:"loan"`
}

type API interface {
	PlanStatus(ctx context.Context) (*PlanStatus, error)
	FraudLookup(ctx context.Context, nationalID string) (*fraud.Status, error)

	CreateLoan(ctx context.Context, req CreateLoanRequest) (*CreateLoanResult, error)
	VerifyGatewayPayment(ctx context.Context, loanID string, receipt GatewayReceipt) (*loan.Loan, error)

	VerifyOTP(ctx context.Context, loanID, code string) (*loan.Loan, error)
	ResendOTP(ctx context.Context, loanID string) error
	SkipOTP(ctx context.Context, loanID string) error

	UpdateAcceptance(ctx context.Context, loanID string, status loan.AcceptanceStatus) (*loan.Loan, error)
	UpdatePaymentStatus(ctx context.Context, loanID string, status loan.RawStatus) (*loan.Loan, error)

	SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*payment.Payment, error)
	PendingPayments(ctx context.Context, page, limit int) (*PendingPage, error)
	ConfirmPayment(ctx context.Context, loanID, paymentID, note string) (*Resolution, error)
	RejectPayment(ctx context.Context, loanID, paymentID, reason string) (*Resolution, error)

	GetLoan(ctx context.Context, loanID string) (*loan.Loan, error)
	ListLoans(ctx context.Context, role Role, page, limit int) ([]*loan.Loan, error)
}
