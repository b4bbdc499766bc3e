// Package otp holds short-lived one-time-code challenges keyed by phone
// number. The store is injected so handlers can run against an in-process
// map in tests and a shared Redis in production.
package otp

import (
	"context"
	"time"
)

// Challenge is a single outstanding one-time code for a phone number.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry.
func (ch Challenge) Expired() bool {
	return time.Now().After(ch.ExpiresAt)
}

// Store keeps at most one challenge per phone number. Put replaces any
// prior challenge for the same phone.
type Store interface {
	Put(ctx context.Context, phone string, ch Challenge) error
	Get(ctx context.Context, phone string) (Challenge, bool, error)
	Delete(ctx context.Context, phone string) error
}
