// Package lists refreshes the two loan collections from the backend,
// which stays the single source of truth for both parties.
package lists

import (
	"context"

	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
)

type Usecase struct {
	api   remote.API
	store *store.Store
}

func NewUsecase(api remote.API, st *store.Store) *Usecase {
	return &Usecase{api: api, store: st}
}

func roleFor(v store.View) remote.Role {
	if v == store.ViewTaken {
		return remote.RoleBorrower
	}
	return remote.RoleLender
}

// Refresh replaces a whole view with the server's list. This is the
// reconciliation point for loans that earlier patches could not find in
// a filtered view.
func (u *Usecase) Refresh(ctx context.Context, v store.View, page, limit int) ([]*loan.Loan, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	loans, err := u.api.ListLoans(ctx, roleFor(v), page, limit)
	if err != nil {
		return nil, err
	}
	if page == 1 {
		if err := u.store.Replace(ctx, v, loans); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

// Cached returns the last-written snapshot of a view without a network
// round-trip.
func (u *Usecase) Cached(v store.View) []*loan.Loan {
	return u.store.Snapshot(v)
}
