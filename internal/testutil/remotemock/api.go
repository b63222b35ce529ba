// Package remotemock is a function-backed test double for the upstream
// loan API. Only set the fields a test needs; unset calls fail loudly.
package remotemock

import (
	"context"
	"errors"

	"loantrack/internal/domain/fraud"
	"loantrack/internal/domain/loan"
	"loantrack/internal/domain/payment"
	"loantrack/internal/remote"
)

var errNotImplemented = errors.New("remotemock: not implemented")

type API struct {
	PlanStatusFn           func(ctx context.Context) (*remote.PlanStatus, error)
	FraudLookupFn          func(ctx context.Context, nationalID string) (*fraud.Status, error)
	CreateLoanFn           func(ctx context.Context, req remote.CreateLoanRequest) (*remote.CreateLoanResult, error)
	VerifyGatewayPaymentFn func(ctx context.Context, loanID string, receipt remote.GatewayReceipt) (*loan.Loan, error)
	VerifyOTPFn            func(ctx context.Context, loanID, code string) (*loan.Loan, error)
	ResendOTPFn            func(ctx context.Context, loanID string) error
	SkipOTPFn              func(ctx context.Context, loanID string) error
	UpdateAcceptanceFn     func(ctx context.Context, loanID string, status loan.AcceptanceStatus) (*loan.Loan, error)
	UpdatePaymentStatusFn  func(ctx context.Context, loanID string, status loan.RawStatus) (*loan.Loan, error)
	SubmitPaymentFn        func(ctx context.Context, req remote.SubmitPaymentRequest) (*payment.Payment, error)
	PendingPaymentsFn      func(ctx context.Context, page, limit int) (*remote.PendingPage, error)
	ConfirmPaymentFn       func(ctx context.Context, loanID, paymentID, note string) (*remote.Resolution, error)
	RejectPaymentFn        func(ctx context.Context, loanID, paymentID, reason string) (*remote.Resolution, error)
	GetLoanFn              func(ctx context.Context, loanID string) (*loan.Loan, error)
	ListLoansFn            func(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error)
}

func (m *API) PlanStatus(ctx context.Context) (*remote.PlanStatus, error) {
	if m.PlanStatusFn != nil {
		return m.PlanStatusFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *API) FraudLookup(ctx context.Context, nationalID string) (*fraud.Status, error) {
	if m.FraudLookupFn != nil {
		return m.FraudLookupFn(ctx, nationalID)
	}
	return nil, errNotImplemented
}

func (m *API) CreateLoan(ctx context.Context, req remote.CreateLoanRequest) (*remote.CreateLoanResult, error) {
	if m.CreateLoanFn != nil {
		return m.CreateLoanFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *API) VerifyGatewayPayment(ctx context.Context, loanID string, receipt remote.GatewayReceipt) (*loan.Loan, error) {
	if m.VerifyGatewayPaymentFn != nil {
		return m.VerifyGatewayPaymentFn(ctx, loanID, receipt)
	}
	return nil, errNotImplemented
}

func (m *API) VerifyOTP(ctx context.Context, loanID, code string) (*loan.Loan, error) {
	if m.VerifyOTPFn != nil {
		return m.VerifyOTPFn(ctx, loanID, code)
	}
	return nil, errNotImplemented
}

func (m *API) ResendOTP(ctx context.Context, loanID string) error {
	if m.ResendOTPFn != nil {
		return m.ResendOTPFn(ctx, loanID)
	}
	return errNotImplemented
}

func (m *API) SkipOTP(ctx context.Context, loanID string) error {
	if m.SkipOTPFn != nil {
		return m.SkipOTPFn(ctx, loanID)
	}
	return errNotImplemented
}

func (m *API) UpdateAcceptance(ctx context.Context, loanID string, status loan.AcceptanceStatus) (*loan.Loan, error) {
	if m.UpdateAcceptanceFn != nil {
		return m.UpdateAcceptanceFn(ctx, loanID, status)
	}
	return nil, errNotImplemented
}

func (m *API) UpdatePaymentStatus(ctx context.Context, loanID string, status loan.RawStatus) (*loan.Loan, error) {
	if m.UpdatePaymentStatusFn != nil {
		return m.UpdatePaymentStatusFn(ctx, loanID, status)
	}
	return nil, errNotImplemented
}

func (m *API) SubmitPayment(ctx context.Context, req remote.SubmitPaymentRequest) (*payment.Payment, error) {
	if m.SubmitPaymentFn != nil {
		return m.SubmitPaymentFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *API) PendingPayments(ctx context.Context, page, limit int) (*remote.PendingPage, error) {
	if m.PendingPaymentsFn != nil {
		return m.PendingPaymentsFn(ctx, page, limit)
	}
	return nil, errNotImplemented
}

func (m *API) ConfirmPayment(ctx context.Context, loanID, paymentID, note string) (*remote.Resolution, error) {
	if m.ConfirmPaymentFn != nil {
		return m.ConfirmPaymentFn(ctx, loanID, paymentID, note)
	}
	return nil, errNotImplemented
}

func (m *API) RejectPayment(ctx context.Context, loanID, paymentID, reason string) (*remote.Resolution, error) {
	if m.RejectPaymentFn != nil {
		return m.RejectPaymentFn(ctx, loanID, paymentID, reason)
	}
	return nil, errNotImplemented
}

func (m *API) GetLoan(ctx context.Context, loanID string) (*loan.Loan, error) {
	if m.GetLoanFn != nil {
		return m.GetLoanFn(ctx, loanID)
	}
	return nil, errNotImplemented
}

func (m *API) ListLoans(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error) {
	if m.ListLoansFn != nil {
		return m.ListLoansFn(ctx, role, page, limit)
	}
	return nil, errNotImplemented
}

var _ remote.API = (*API)(nil)
