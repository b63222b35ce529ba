// Package acceptance is the borrower-side accept/reject of a
// lender-created loan. Both outcomes are terminal.
package acceptance

import (
	"context"
	"errors"
	"log"

	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
)

var ErrBadTarget = errors.New("acceptance target must be accepted or rejected")

type Usecase struct {
	api   remote.API
	store *store.Store
}

func NewUsecase(api remote.API, st *store.Store) *Usecase {
	return &Usecase{api: api, store: st}
}

// Update moves the loan to accepted or rejected and patches the result
// into both cached views. A loan already in a terminal state is refused
// locally; the backend remains the final arbiter either way.
func (u *Usecase) Update(ctx context.Context, loanID string, target loan.AcceptanceStatus) (*loan.Loan, error) {
	if target != loan.AcceptanceAccepted && target != loan.AcceptanceRejected {
		return nil, ErrBadTarget
	}
	if cached, ok := u.store.Get(loanID); ok && cached.AcceptanceTerminal() {
		return nil, loan.ErrStale
	}
	updated, err := u.api.UpdateAcceptance(ctx, loanID, target)
	if err != nil {
		if remote.IsStale(err) {
			u.refresh(ctx, loanID)
		}
		return nil, err
	}
	if _, err := u.store.Patch(ctx, updated); err != nil {
		log.Printf("acceptance: cache patch failed: %v", err)
	}
	return updated, nil
}

// refresh re-fetches the authoritative loan after a stale-state conflict.
func (u *Usecase) refresh(ctx context.Context, loanID string) {
	fresh, err := u.api.GetLoan(ctx, loanID)
	if err != nil {
		log.Printf("acceptance: refresh of %s failed: %v", loanID, err)
		return
	}
	if _, err := u.store.Patch(ctx, fresh); err != nil {
		log.Printf("acceptance: cache patch failed: %v", err)
	}
}
