package remote

import (
	"errors"
	"regexp"
	"strings"
)

// Kind classifies an upstream failure so callers can decide between
// halting, refreshing, or surfacing the message verbatim.
type Kind string

const (
	// Server rejected the request on business grounds; message is shown
	// to the user as-is.
	KindRejected Kind = "rejected"
	// Field-level validation failure from the server.
	KindValidation Kind = "validation"
	// The entity was mutated by the other party first; refresh, don't retry.
	KindStale Kind = "stale"
	KindNotFound Kind = "not_found"
	// Network or 5xx; the local state is left untouched.
	KindTransport Kind = "transport"
)

type Error struct {
	Kind    Kind
	Message string
	// HTTP status when the failure came from a decoded response.
	Status int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// ErrCheckoutCancelled is returned by checkout hooks when the user backs
// out of the gateway UI. The created loan is kept, unpaid.
var ErrCheckoutCancelled = errors.New("gateway checkout cancelled")

// IsStale reports whether err is a stale-state conflict from the server.
func IsStale(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindStale
}

// Some upstream validation messages arrive prefixed with the offending
// field ("amount: exceeds remaining balance"). Strip the prefix before
// display.
var fieldPrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*:\s+`)

func StripFieldPrefix(msg string) string {
	return fieldPrefix.ReplaceAllString(strings.TrimSpace(msg), "")
}
