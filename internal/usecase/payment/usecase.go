// Package payment covers both sides of installment reconciliation:
// borrower submission into the pending queue, and lender confirm/reject.
package payment

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"loantrack/internal/domain/loan"
	domain "loantrack/internal/domain/payment"
	"loantrack/internal/remote"
	"loantrack/internal/store"
)

type Usecase struct {
	api   remote.API
	store *store.Store

	// Per-payment in-flight guard: confirm and reject are mutually
	// exclusive and must not double-submit while one is pending.
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewUsecase(api remote.API, st *store.Store) *Usecase {
	return &Usecase{api: api, store: st, inflight: make(map[string]struct{})}
}

type SubmitInput struct {
	LoanID         string
	Amount         decimal.Decimal
	Mode           loan.PaymentMode
	TransactionRef string
	ProofURL       string
	Note           string
}

// Submit records a borrower payment against a loan. Only positivity is
// checked locally; whether the amount exceeds the remaining balance is
// the server's call and any rejection is surfaced, not assumed away.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*domain.Payment, error) {
	if in.Amount.Sign() <= 0 {
		return nil, domain.ErrNonPositiveAmount
	}
	return u.api.SubmitPayment(ctx, remote.SubmitPaymentRequest{
		LoanID:         in.LoanID,
		Amount:         in.Amount,
		Mode:           in.Mode,
		TransactionRef: in.TransactionRef,
		ProofURL:       in.ProofURL,
		Note:           in.Note,
	})
}

// Pending pages through loans that have unresolved payments awaiting the
// lender's review.
func (u *Usecase) Pending(ctx context.Context, page, limit int) (*remote.PendingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return u.api.PendingPayments(ctx, page, limit)
}

func (u *Usecase) acquire(paymentID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, busy := u.inflight[paymentID]; busy {
		return false
	}
	u.inflight[paymentID] = struct{}{}
	return true
}

func (u *Usecase) release(paymentID string) {
	u.mu.Lock()
	delete(u.inflight, paymentID)
	u.mu.Unlock()
}

// Confirm marks a pending payment as received. The server recomputes the
// loan aggregates; the returned loan replaces the cached one wholesale. A
// second confirm on an already-resolved payment comes back as a
// stale-state error and triggers a refresh, never a silent retry.
func (u *Usecase) Confirm(ctx context.Context, loanID, paymentID, note string) (*remote.Resolution, error) {
	if !u.acquire(paymentID) {
		return nil, domain.ErrActionInFlight
	}
	defer u.release(paymentID)

	res, err := u.api.ConfirmPayment(ctx, loanID, paymentID, note)
	if err != nil {
		return nil, u.mapResolveErr(ctx, loanID, err)
	}
	u.fold(ctx, res)
	return res, nil
}

// Reject declines a pending payment. The reason is mandatory and checked
// before any remote call; loan aggregates are unaffected.
func (u *Usecase) Reject(ctx context.Context, loanID, paymentID, reason string) (*remote.Resolution, error) {
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	if !u.acquire(paymentID) {
		return nil, domain.ErrActionInFlight
	}
	defer u.release(paymentID)

	res, err := u.api.RejectPayment(ctx, loanID, paymentID, reason)
	if err != nil {
		return nil, u.mapResolveErr(ctx, loanID, err)
	}
	u.fold(ctx, res)
	return res, nil
}

// MarkPaid is the lender's shortcut for a loan settled outside the app.
// Only allowed once the borrower has accepted and nothing is paid yet.
func (u *Usecase) MarkPaid(ctx context.Context, loanID string) (*loan.Loan, error) {
	if cached, ok := u.store.Get(loanID); ok && !cached.CanMarkPaid() {
		return nil, loan.ErrInvalidTransition
	}
	updated, err := u.api.UpdatePaymentStatus(ctx, loanID, loan.StatusPaid)
	if err != nil {
		return nil, u.mapResolveErr(ctx, loanID, err)
	}
	if _, err := u.store.Patch(ctx, updated); err != nil {
		log.Printf("payment: cache patch failed: %v", err)
	}
	return updated, nil
}

func (u *Usecase) fold(ctx context.Context, res *remote.Resolution) {
	if res == nil || res.Loan == nil {
		return
	}
	if _, err := u.store.Patch(ctx, res.Loan); err != nil {
		log.Printf("payment: cache patch failed: %v", err)
	}
}

// mapResolveErr distinguishes stale-state conflicts from ordinary
// failures and refreshes the affected loan so the views catch up with the
// other party.
func (u *Usecase) mapResolveErr(ctx context.Context, loanID string, err error) error {
	if !remote.IsStale(err) {
		return err
	}
	fresh, ferr := u.api.GetLoan(ctx, loanID)
	if ferr != nil {
		log.Printf("payment: refresh of %s failed: %v", loanID, ferr)
		return err
	}
	if _, perr := u.store.Patch(ctx, fresh); perr != nil {
		log.Printf("payment: cache patch failed: %v", perr)
	}
	return err
}
