package fraud

// RiskLevel is computed by the external scoring service; this client only
// consumes it.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// NationalIDLength is the fixed length that triggers a lookup while the
// lender is still typing.
const NationalIDLength = 12

type Flags struct {
	MultipleLoansInWindow bool `json:"multiple_loans_in_window"`
	HasPending            bool `json:"has_pending"`
	HasOverdue            bool `json:"has_overdue"`
}

type Status struct {
	RiskLevel      RiskLevel `json:"risk_level"`
	Score          float64   `json:"score"`
	Flags          Flags     `json:"flags"`
	Recommendation string    `json:"recommendation"`
}

// Blocking reports whether loan creation must pause for an explicit
// "proceed anyway" decision. Only a low risk passes straight through.
func (s *Status) Blocking() bool {
	return s != nil && s.RiskLevel != RiskLow
}

// ValidNationalID reports whether id is a complete 12-digit identifier.
func ValidNationalID(id string) bool {
	if len(id) != NationalIDLength {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
