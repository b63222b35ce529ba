package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

var decimal100 = decimal.NewFromInt(100)

// Display labels produced by Derive. Raw statuses pass through unchanged
// when no override applies.
const (
	LabelRejected = "rejected"
	LabelOverdue  = "overdue"
	LabelClosed   = "closed"
)

// Derived is the single authoritative view of a loan's status. Every screen
// shows this; none re-derives the label inline.
type Derived struct {
	Label         string  `json:"label"`
	IsClosed      bool    `json:"is_closed"`
	IsOverdue     bool    `json:"is_overdue"`
	CompletionPct float64 `json:"completion_pct"`
}

// Derive computes the observable status from the loan's raw fields.
// Label precedence: rejected > overdue > closed > raw status. A
// borrower-rejected loan reads "rejected" no matter what has been paid.
func Derive(l *Loan, now time.Time) Derived {
	d := Derived{
		IsClosed: l.Remaining.Sign() <= 0 && l.TotalPaid.Sign() > 0,
	}
	d.IsOverdue = l.EndDate.Before(now) && l.Remaining.Sign() > 0 && !d.IsClosed

	if l.Amount.Sign() > 0 {
		pct, _ := l.TotalPaid.Div(l.Amount).Mul(decimal100).Float64()
		if pct > 100 {
			pct = 100
		}
		d.CompletionPct = pct
	}

	switch {
	case l.Acceptance == AcceptanceRejected:
		d.Label = LabelRejected
	case d.IsOverdue:
		d.Label = LabelOverdue
	case d.IsClosed:
		d.Label = LabelClosed
	default:
		d.Label = string(l.RawStatus)
	}
	return d
}
