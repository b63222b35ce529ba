package lists

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
	"loantrack/internal/testutil/remotemock"
)

func mkLoan(id string) *loan.Loan {
	return &loan.Loan{
		ID:        id,
		Amount:    decimal.NewFromInt(1000),
		Remaining: decimal.NewFromInt(1000),
		RawStatus: loan.StatusPending,
	}
}

func TestRefresh_RoleFollowsView(t *testing.T) {
	var asked []remote.Role
	api := &remotemock.API{
		ListLoansFn: func(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error) {
			asked = append(asked, role)
			return nil, nil
		},
	}
	uc := NewUsecase(api, store.New(nil))
	ctx := context.Background()

	if _, err := uc.Refresh(ctx, store.ViewGiven, 1, 20); err != nil {
		t.Fatalf("Refresh given: %v", err)
	}
	if _, err := uc.Refresh(ctx, store.ViewTaken, 1, 20); err != nil {
		t.Fatalf("Refresh taken: %v", err)
	}
	if len(asked) != 2 || asked[0] != remote.RoleLender || asked[1] != remote.RoleBorrower {
		t.Fatalf("roles = %v, want [lender borrower]", asked)
	}
}

func TestRefresh_FirstPageReplacesView(t *testing.T) {
	api := &remotemock.API{
		ListLoansFn: func(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error) {
			return []*loan.Loan{mkLoan("b"), mkLoan("a")}, nil
		},
	}
	st := store.New(nil)
	_ = st.Replace(context.Background(), store.ViewGiven, []*loan.Loan{mkLoan("stale")})
	uc := NewUsecase(api, st)

	got, err := uc.Refresh(context.Background(), store.ViewGiven, 1, 20)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	snap := st.Snapshot(store.ViewGiven)
	if len(snap) != 2 || snap[0].ID != "b" || snap[1].ID != "a" {
		t.Fatalf("snapshot = %v, want server order with stale entry gone", ids(snap))
	}
}

func TestRefresh_LaterPagesLeaveCacheAlone(t *testing.T) {
	api := &remotemock.API{
		ListLoansFn: func(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error) {
			return []*loan.Loan{mkLoan("page2")}, nil
		},
	}
	st := store.New(nil)
	_ = st.Replace(context.Background(), store.ViewGiven, []*loan.Loan{mkLoan("page1")})
	uc := NewUsecase(api, st)

	if _, err := uc.Refresh(context.Background(), store.ViewGiven, 2, 20); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := st.Snapshot(store.ViewGiven)
	if len(snap) != 1 || snap[0].ID != "page1" {
		t.Fatalf("snapshot = %v, want first page untouched", ids(snap))
	}
}

func TestRefresh_ErrorKeepsCache(t *testing.T) {
	api := &remotemock.API{
		ListLoansFn: func(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error) {
			return nil, &remote.Error{Kind: remote.KindTransport, Message: "upstream down"}
		},
	}
	st := store.New(nil)
	_ = st.Replace(context.Background(), store.ViewGiven, []*loan.Loan{mkLoan("kept")})
	uc := NewUsecase(api, st)

	_, err := uc.Refresh(context.Background(), store.ViewGiven, 1, 20)
	var rerr *remote.Error
	if !errors.As(err, &rerr) || rerr.Kind != remote.KindTransport {
		t.Fatalf("err = %v, want transport error", err)
	}
	if snap := uc.Cached(store.ViewGiven); len(snap) != 1 || snap[0].ID != "kept" {
		t.Fatal("failed refresh must not wipe the cached view")
	}
}

func TestRefresh_NormalizesPaging(t *testing.T) {
	var gotPage, gotLimit int
	api := &remotemock.API{
		ListLoansFn: func(ctx context.Context, role remote.Role, page, limit int) ([]*loan.Loan, error) {
			gotPage, gotLimit = page, limit
			return nil, nil
		},
	}
	uc := NewUsecase(api, store.New(nil))

	if _, err := uc.Refresh(context.Background(), store.ViewTaken, 0, -3); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if gotPage != 1 || gotLimit != 20 {
		t.Fatalf("page/limit = %d/%d, want 1/20", gotPage, gotLimit)
	}
}

func ids(loans []*loan.Loan) []string {
	out := make([]string, len(loans))
	for i, l := range loans {
		out[i] = l.ID
	}
	return out
}
