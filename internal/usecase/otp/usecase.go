// Package otp drives the 4-digit confirmation that moves a freshly
// created loan from "pending confirmation" to live in the lender's view.
package otp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
)

// CodeLength is fixed by the challenge format.
const CodeLength = 4

var (
	ErrIncompleteCode = errors.New("code must be 4 digits")

	// Resend is still inside its cooldown window.
	ErrResendCooldown = errors.New("resend not available yet")
)

// ValidateCode checks the code is complete: all positions filled, digits
// only. No attempt limit is enforced here; the server arbitrates.
func ValidateCode(code string) error {
	if len(code) != CodeLength {
		return ErrIncompleteCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrIncompleteCode
		}
	}
	return nil
}

type Usecase struct {
	api      remote.API
	store    *store.Store
	rdb      *redis.Client
	cooldown time.Duration
}

func NewUsecase(api remote.API, st *store.Store, rdb *redis.Client, cooldown time.Duration) *Usecase {
	return &Usecase{api: api, store: st, rdb: rdb, cooldown: cooldown}
}

// Verify submits the code. On success the confirmed loan is folded back
// into every cached view. On failure the server's message is surfaced
// verbatim so the modal can stay open for a retry.
func (u *Usecase) Verify(ctx context.Context, loanID, code string) (*loan.Loan, error) {
	if err := ValidateCode(code); err != nil {
		return nil, err
	}
	confirmed, err := u.api.VerifyOTP(ctx, loanID, code)
	if err != nil {
		return nil, err
	}
	if _, err := u.store.Patch(ctx, confirmed); err != nil {
		log.Printf("otp: cache patch failed: %v", err)
	}
	return confirmed, nil
}

// Resend asks the server to send a fresh code, gated by a cooldown key so
// the affordance stays disabled between sends. Returns how long until
// resend is available again.
func (u *Usecase) Resend(ctx context.Context, loanID string) (time.Duration, error) {
	key := "otp:cooldown:" + loanID
	if u.rdb != nil {
		ok, err := u.rdb.SetNX(ctx, key, 1, u.cooldown).Result()
		if err != nil {
			return 0, err
		}
		if !ok {
			ttl, terr := u.rdb.TTL(ctx, key).Result()
			if terr != nil || ttl < 0 {
				ttl = u.cooldown
			}
			return ttl, fmt.Errorf("%w: retry in %s", ErrResendCooldown, ttl.Round(time.Second))
		}
	}
	if err := u.api.ResendOTP(ctx, loanID); err != nil {
		if u.rdb != nil {
			// Let the user try again right away if the send itself failed.
			_ = u.rdb.Del(ctx, key).Err()
		}
		return 0, err
	}
	return u.cooldown, nil
}

// Skip records an explicit skip. The loan stays pending and remains
// addressable for later confirmation; this is not a failure.
func (u *Usecase) Skip(ctx context.Context, loanID string) error {
	return u.api.SkipOTP(ctx, loanID)
}
