// Package create runs the gated loan-creation sequence: subscription
// plan check, fraud check, persist, online-payment branch, OTP issuance.
// Steps are strictly sequential; each can short-circuit with a typed
// failure.
package create

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"loantrack/internal/domain/fraud"
	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
)

var (
	ErrNationalIDIncomplete = errors.New("national id must be 12 digits")
	ErrNonPositiveAmount    = errors.New("amount must be positive")
	ErrEndNotAfterStart     = errors.New("end date must be after start date")
	ErrBorrowerNameRequired = errors.New("borrower name is required")
	ErrBadMode              = errors.New("mode must be cash or online")
)

// FraudBlockedError pauses creation until the operator makes an explicit
// proceed/cancel decision.
type FraudBlockedError struct {
	Status *fraud.Status
}

func (e *FraudBlockedError) Error() string {
	return "fraud risk " + string(e.Status.RiskLevel) + ": explicit confirmation required"
}

type Input struct {
	BorrowerName       string
	BorrowerMobile     string
	BorrowerNationalID string
	Amount             decimal.Decimal
	Purpose            string
	StartDate          time.Time
	EndDate            time.Time
	Mode               loan.PaymentMode
}

// Validate runs the local checks that must fail before any remote call.
func (in Input) Validate() error {
	if in.BorrowerName == "" {
		return ErrBorrowerNameRequired
	}
	if !fraud.ValidNationalID(in.BorrowerNationalID) {
		return ErrNationalIDIncomplete
	}
	if in.Amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if !in.EndDate.After(in.StartDate) {
		return ErrEndNotAfterStart
	}
	if in.Mode != loan.ModeCash && in.Mode != loan.ModeOnline {
		return ErrBadMode
	}
	return nil
}

type Outcome string

const (
	// Loan created; OTP challenge sent to the borrower.
	OutcomeCreated Outcome = "created"
	// Online loan created; caller still has to run gateway checkout
	// against Result.GatewayOrder and then verify.
	OutcomeAwaitingCheckout Outcome = "awaiting_checkout"
	// Checkout was cancelled by the user; the loan exists, unpaid.
	OutcomePaymentPending Outcome = "payment_pending"
	// Checkout finished but verification failed; the loan exists and is
	// unresolved. Returned together with the verification error.
	OutcomeUnresolved Outcome = "unresolved"
)

type Result struct {
	Loan         *loan.Loan
	GatewayOrder *remote.GatewayOrder
	FraudWarning string
	Outcome      Outcome
	OTPSent      bool
}

// Hooks are the interactive decision points a UI drives.
type Hooks struct {
	// ConfirmFraud is the "proceed anyway" prompt shown for non-low risk.
	// nil means no decision is available and Run fails with
	// *FraudBlockedError.
	ConfirmFraud func(ctx context.Context, st *fraud.Status) (bool, error)
	// Checkout opens the gateway UI for online loans and returns the
	// receipt, or remote.ErrCheckoutCancelled. nil means the caller will
	// verify later; Run stops at OutcomeAwaitingCheckout.
	Checkout func(ctx context.Context, order *remote.GatewayOrder) (*remote.GatewayReceipt, error)
}

type Usecase struct {
	api   remote.API
	store *store.Store
	cache *FraudCache
}

func NewUsecase(api remote.API, st *store.Store, cache *FraudCache) *Usecase {
	return &Usecase{api: api, store: st, cache: cache}
}

// Precheck runs the fraud lookup for a complete national ID, consulting
// the session cache first. Screens call it the moment the ID reaches its
// full length.
func (u *Usecase) Precheck(ctx context.Context, nationalID string) (*fraud.Status, error) {
	if !fraud.ValidNationalID(nationalID) {
		return nil, ErrNationalIDIncomplete
	}
	if st, ok := u.cache.Get(ctx, nationalID); ok {
		return st, nil
	}
	st, err := u.api.FraudLookup(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	u.cache.Put(ctx, nationalID, st)
	return st, nil
}

// Run executes the full creation gate. On gating or validation failure
// nothing is created and the result is nil. Once the loan is persisted,
// later failures never discard it: the result carries the created loan
// even when an error is returned.
func (u *Usecase) Run(ctx context.Context, in Input, hooks Hooks) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Step 1: active-subscription gate.
	plan, err := u.api.PlanStatus(ctx)
	if err != nil {
		return nil, err
	}
	if !plan.HasActivePlan {
		return nil, loan.ErrPlanRequired
	}
	if plan.RemainingDays <= 0 {
		return nil, loan.ErrPlanExpired
	}

	// Step 2: fraud gate. An opaque lookup failure degrades to a
	// non-blocking warning; any non-low risk needs an explicit decision.
	st, err := u.Precheck(ctx, in.BorrowerNationalID)
	if err != nil {
		log.Printf("create: fraud lookup failed, proceeding with warning: %v", err)
	} else if st.Blocking() {
		if hooks.ConfirmFraud == nil {
			return nil, &FraudBlockedError{Status: st}
		}
		proceed, err := hooks.ConfirmFraud(ctx, st)
		if err != nil {
			return nil, err
		}
		if !proceed {
			return nil, loan.ErrFraudDeclined
		}
	}

	// Step 3: persist.
	created, err := u.api.CreateLoan(ctx, remote.CreateLoanRequest{
		BorrowerName:       in.BorrowerName,
		BorrowerMobile:     in.BorrowerMobile,
		BorrowerNationalID: in.BorrowerNationalID,
		Amount:             in.Amount,
		Purpose:            in.Purpose,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		Mode:               in.Mode,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Loan:         created.Loan,
		GatewayOrder: created.GatewayOrder,
		FraudWarning: created.FraudWarning,
	}
	if err := u.store.Prepend(ctx, store.ViewGiven, created.Loan); err != nil {
		log.Printf("create: cache prepend failed: %v", err)
	}

	// Step 4: online payment branch.
	if in.Mode == loan.ModeOnline && created.GatewayOrder != nil {
		if hooks.Checkout == nil {
			res.Outcome = OutcomeAwaitingCheckout
			return res, nil
		}
		receipt, err := hooks.Checkout(ctx, created.GatewayOrder)
		switch {
		case errors.Is(err, remote.ErrCheckoutCancelled):
			// Created but unpaid; resolved later, not rolled back.
			res.Outcome = OutcomePaymentPending
			return res, nil
		case err != nil:
			res.Outcome = OutcomeUnresolved
			return res, err
		}
		verified, err := u.api.VerifyGatewayPayment(ctx, created.Loan.ID, *receipt)
		if err != nil {
			res.Outcome = OutcomeUnresolved
			return res, err
		}
		res.Loan = verified
		if _, err := u.store.Patch(ctx, verified); err != nil {
			log.Printf("create: cache patch failed: %v", err)
		}
	}

	// Step 5: the server has issued the OTP challenge alongside creation.
	res.Outcome = OutcomeCreated
	res.OTPSent = true
	return res, nil
}

// VerifyPayment finishes an OutcomeAwaitingCheckout run once the UI hands
// back the gateway receipt.
func (u *Usecase) VerifyPayment(ctx context.Context, loanID string, receipt remote.GatewayReceipt) (*loan.Loan, error) {
	verified, err := u.api.VerifyGatewayPayment(ctx, loanID, receipt)
	if err != nil {
		return nil, err
	}
	if _, err := u.store.Patch(ctx, verified); err != nil {
		log.Printf("create: cache patch failed: %v", err)
	}
	return verified, nil
}
