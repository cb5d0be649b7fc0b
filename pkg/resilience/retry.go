package resilience

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// Decision is the outcome of consulting a RetryPolicy: either retry
// after Delay, or give up.
type Decision struct {
	Retry bool
	Delay time.Duration
}

// RetryPolicy decides whether a failed attempt should be retried and
// how long to back off. Delays grow exponentially from BaseDelay and
// are capped at MaxDelay; Jitter adds up to that fraction of the delay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      float64
	IsRetryable func(error) bool
	rng         *rand.Rand
}

func NewRetryPolicy(maxAttempts int, base, max time.Duration) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = 10 * time.Second
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   base,
		MaxDelay:    max,
		IsRetryable: DefaultIsRetryable,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the decision for the given 1-based attempt number.
func (p RetryPolicy) Next(attempt int, err error) Decision {
	isRetryable := p.IsRetryable
	if isRetryable == nil {
		isRetryable = DefaultIsRetryable
	}
	if err == nil || !isRetryable(err) || attempt >= p.MaxAttempts {
		return Decision{}
	}
	return Decision{Retry: true, Delay: p.backoff(attempt)}
}

// DefaultIsRetryable follows the classified-error contract: errors
// expose Retryable(), everything else is terminal.
func DefaultIsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	max := p.MaxDelay
	if max <= 0 {
		max = 10 * time.Second
	}
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if d > max || d <= 0 {
		d = max
	}
	if p.Jitter > 0 && p.rng != nil {
		d += time.Duration(float64(d) * p.Jitter * p.rng.Float64())
	}
	return d
}
