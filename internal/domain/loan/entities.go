package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeOnline PaymentMode = "online"
)

type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "pending"
	AcceptanceAccepted AcceptanceStatus = "accepted"
	AcceptanceRejected AcceptanceStatus = "rejected"
)

// RawStatus is the backend-stored payment status. Screens never show it
// directly; they show the label from Derive.
type RawStatus string

const (
	StatusPending  RawStatus = "pending"
	StatusPartPaid RawStatus = "part paid"
	StatusPaid     RawStatus = "paid"
)

// Borrower carries the denormalized display fields the lender entered at
// creation time. NationalID is the 12-digit Aadhaar-style identifier used
// for fraud lookups.
type Borrower struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	NationalID string `json:"national_id"`
}

// OnlineDetails exists only when Mode == ModeOnline; cash loans carry nil.
type OnlineDetails struct {
	GatewayOrderID string `json:"gateway_order_id"`
}

type Loan struct {
	ID       string   `json:"id"`
	LenderID string   `json:"lender_id"`
	Borrower Borrower `json:"borrower"`

	Amount    decimal.Decimal `json:"amount"`
	Purpose   string          `json:"purpose"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Mode      PaymentMode     `json:"mode"`

	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining_amount"`

	Acceptance AcceptanceStatus `json:"acceptance_status"`
	RawStatus  RawStatus        `json:"payment_status"`

	Online *OnlineDetails `json:"online,omitempty"`

	OTPChallengeID string `json:"otp_challenge_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanMarkPaid reports whether the lender's "mark as paid" action applies:
// the borrower has accepted and nothing has been paid yet.
func (l *Loan) CanMarkPaid() bool {
	return l.Acceptance == AcceptanceAccepted && l.RawStatus == StatusPending
}

// AcceptanceTerminal reports whether the borrower's decision is final.
// Neither accepted nor rejected transitions back to pending.
func (l *Loan) AcceptanceTerminal() bool {
	return l.Acceptance == AcceptanceAccepted || l.Acceptance == AcceptanceRejected
}
