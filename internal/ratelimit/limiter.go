// Package ratelimit provides client-side request throttling with a general
// bucket plus a stricter bucket for order placement and cancellation.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// BucketOrders is the bucket name for order-mutating requests.
const BucketOrders = "orders"

// Limiter throttles outgoing requests. Order operations draw from their own
// token bucket in addition to the general one, matching the exchange's
// separate order-rate accounting.
type Limiter struct {
	general *rate.Limiter
	orders  *rate.Limiter

	waited  atomic.Int64
	denied  atomic.Int64
	allowed atomic.Int64
}

// New creates a Limiter allowing the given number of general requests and
// order requests per period.
func New(requests, orders int, period time.Duration) *Limiter {
	return &Limiter{
		general: rate.NewLimiter(rate.Limit(float64(requests)/period.Seconds()), requests),
		orders:  rate.NewLimiter(rate.Limit(float64(orders)/period.Seconds()), orders),
	}
}

// Wait blocks until the relevant buckets allow a request or the context is
// cancelled. Requests in the orders bucket consume from both buckets.
func (l *Limiter) Wait(ctx context.Context, bucket string) error {
	l.waited.Add(1)
	if bucket == BucketOrders {
		if err := l.orders.Wait(ctx); err != nil {
			l.denied.Add(1)
			return err
		}
	}
	if err := l.general.Wait(ctx); err != nil {
		l.denied.Add(1)
		return err
	}
	l.allowed.Add(1)
	return nil
}

// Allow reports whether a request in the given bucket may proceed
// immediately, consuming tokens if so.
func (l *Limiter) Allow(bucket string) bool {
	l.waited.Add(1)
	if bucket == BucketOrders && !l.orders.Allow() {
		l.denied.Add(1)
		return false
	}
	if !l.general.Allow() {
		l.denied.Add(1)
		return false
	}
	l.allowed.Add(1)
	return true
}

// SetLimit updates both bucket rates.
func (l *Limiter) SetLimit(requests, orders int, period time.Duration) {
	l.general.SetLimit(rate.Limit(float64(requests) / period.Seconds()))
	l.general.SetBurst(requests)
	l.orders.SetLimit(rate.Limit(float64(orders) / period.Seconds()))
	l.orders.SetBurst(orders)
}

// Snapshot is a point-in-time capture of limiter statistics.
type Snapshot struct {
	Total   int64
	Allowed int64
	Denied  int64
}

// Metrics returns the current limiter statistics.
func (l *Limiter) Metrics() Snapshot {
	return Snapshot{
		Total:   l.waited.Load(),
		Allowed: l.allowed.Load(),
		Denied:  l.denied.Load(),
	}
}
