package create

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"loantrack/internal/domain/fraud"
)

// FraudCache memoizes fraud lookups per national ID for the session, so
// retyping or re-submitting the form does not hammer the scoring service.
type FraudCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFraudCache(rdb *redis.Client, ttl time.Duration) *FraudCache {
	return &FraudCache{rdb: rdb, ttl: ttl}
}

func key(nationalID string) string { return "fraud:" + nationalID }

func (c *FraudCache) Get(ctx context.Context, nationalID string) (*fraud.Status, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(nationalID)).Bytes()
	if err != nil {
		return nil, false
	}
	var st fraud.Status
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false
	}
	return &st, true
}

func (c *FraudCache) Put(ctx context.Context, nationalID string, st *fraud.Status) {
	if c == nil || c.rdb == nil || st == nil {
		return
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(nationalID), raw, c.ttl).Err()
}
