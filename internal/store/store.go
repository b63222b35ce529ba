// Package store holds the process-wide loan collections: the lender's
// "loans given" list and the borrower's "loans taken" list, both
// materialized from the same backend entities. All mutation goes through
// the few entry points here; screens read snapshots.
package store

import (
	"context"
	"sync"

	"loantrack/internal/domain/loan"
)

type View string

const (
	ViewGiven View = "given"
	ViewTaken View = "taken"
)

// Persister mirrors every mutation into a durable cache so lists survive
// restarts. Whole-object writes only.
type Persister interface {
	ReplaceView(ctx context.Context, v View, loans []*loan.Loan) error
	SaveLoan(ctx context.Context, v View, position int, l *loan.Loan) error
	LoadView(ctx context.Context, v View) ([]*loan.Loan, error)
}

type Store struct {
	mu      sync.RWMutex
	views   map[View][]*loan.Loan
	persist Persister // optional
}

func New(p Persister) *Store {
	return &Store{
		views:   map[View][]*loan.Loan{ViewGiven: nil, ViewTaken: nil},
		persist: p,
	}
}

// Load fills both views from the persisted cache.
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range []View{ViewGiven, ViewTaken} {
		loans, err := s.persist.LoadView(ctx, v)
		if err != nil {
			return err
		}
		s.views[v] = loans
	}
	return nil
}

// Replace swaps an entire view after a full list refresh.
func (s *Store) Replace(ctx context.Context, v View, loans []*loan.Loan) error {
	s.mu.Lock()
	s.views[v] = loans
	s.mu.Unlock()
	if s.persist != nil {
		return s.persist.ReplaceView(ctx, v, loans)
	}
	return nil
}

// Prepend puts a newly created loan at the head of a view, most recent
// first.
func (s *Store) Prepend(ctx context.Context, v View, l *loan.Loan) error {
	s.mu.Lock()
	s.views[v] = append([]*loan.Loan{l}, s.views[v]...)
	snapshot := s.views[v]
	s.mu.Unlock()
	if s.persist != nil {
		return s.persist.ReplaceView(ctx, v, snapshot)
	}
	return nil
}

// Patch locates l by id in every view and replaces the whole object.
// Views that do not contain the loan are left untouched; the next full
// refresh reconciles them. Returns how many views were patched.
func (s *Store) Patch(ctx context.Context, l *loan.Loan) (int, error) {
	s.mu.Lock()
	patched := 0
	type hit struct {
		view View
		pos  int
	}
	var hits []hit
	for v, loans := range s.views {
		for i, cur := range loans {
			if cur.ID == l.ID {
				loans[i] = l
				patched++
				hits = append(hits, hit{view: v, pos: i})
				break
			}
		}
	}
	s.mu.Unlock()

	if s.persist != nil {
		for _, h := range hits {
			if err := s.persist.SaveLoan(ctx, h.view, h.pos, l); err != nil {
				return patched, err
			}
		}
	}
	return patched, nil
}

// Get returns the loan by id from whichever view holds it.
func (s *Store) Get(loanID string) (*loan.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, loans := range s.views {
		for _, l := range loans {
			if l.ID == loanID {
				return l, true
			}
		}
	}
	return nil, false
}

// Snapshot returns a copy of a view's slice. The loan pointers are shared;
// callers treat them as read-only and go through Patch for changes.
func (s *Store) Snapshot(v View) []*loan.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*loan.Loan, len(s.views[v]))
	copy(out, s.views[v])
	return out
}
