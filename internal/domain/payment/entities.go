package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"loantrack/internal/domain/loan"
)

type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateRejected  State = "rejected"
)

var (
	ErrNotFound = errors.New("payment not found")

	// Caught locally before any remote call is made.
	ErrNonPositiveAmount = errors.New("payment amount must be positive")
	ErrReasonRequired    = errors.New("rejection reason is required")

	// The payment was already confirmed or rejected; confirm/reject are
	// terminal and never re-opened.
	ErrAlreadyResolved = errors.New("payment already resolved")

	// Another confirm/reject on the same payment has not finished yet.
	ErrActionInFlight = errors.New("payment action already in progress")
)

type Payment struct {
	ID     string `json:"id"`
	LoanID string `json:"loan_id"`

	Amount decimal.Decimal  `json:"amount"`
	Mode   loan.PaymentMode `json:"mode"`

	TransactionRef string `json:"transaction_ref,omitempty"`
	ProofURL       string `json:"proof_url,omitempty"`
	Note           string `json:"note,omitempty"`

	State State `json:"state"`
	// Set only on rejection; mandatory there.
	RejectionReason string `json:"rejection_reason,omitempty"`
	// Optional lender note attached on confirmation.
	ConfirmationNote string `json:"confirmation_note,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Resolved reports whether the payment reached a terminal state.
func (p *Payment) Resolved() bool {
	return p.State == StateConfirmed || p.State == StateRejected
}
