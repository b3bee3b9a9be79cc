package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"trendlens-go/pkg/logger"
)

// DefaultMaxRetries is the total number of attempts made before giving up.
const DefaultMaxRetries = 3

// DefaultBaseDelay is the fixed portion of the backoff between attempts.
const DefaultBaseDelay = 5 * time.Second

// DefaultJitter is the width of the random delay added on top of the base
// delay, drawn fresh before every retry so independent clients do not
// hammer the provider in lockstep.
const DefaultJitter = 2 * time.Second

// Fetcher executes an operation with bounded retries and jittered backoff.
// Each invocation carries its own attempt counter, so a single Fetcher is
// safe to share across goroutines.
type Fetcher struct {
	maxRetries int
	baseDelay  time.Duration
	jitter     time.Duration

	// Hooks for tests. randFloat must return a value in [0, 1).
	randFloat func() float64
	sleep     func(ctx context.Context, d time.Duration) error

	log *logger.Logger
}

// New creates a Fetcher making up to maxRetries attempts with the given
// base delay between them. Values below the minimum fall back to defaults.
func New(maxRetries int, baseDelay time.Duration) *Fetcher {
	return NewWithJitter(maxRetries, baseDelay, DefaultJitter)
}

// NewWithJitter creates a Fetcher with an explicit jitter width.
func NewWithJitter(maxRetries int, baseDelay time.Duration, jitter time.Duration) *Fetcher {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	if baseDelay < 0 {
		baseDelay = DefaultBaseDelay
	}
	if jitter < 0 {
		jitter = DefaultJitter
	}
	return &Fetcher{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		jitter:     jitter,
		randFloat:  rand.Float64,
		sleep:      sleepContext,
		log:        logger.ForComponent("retry_fetcher"),
	}
}

// MaxRetries returns the configured total attempt count.
func (f *Fetcher) MaxRetries() int {
	return f.maxRetries
}

// Execute runs op until it succeeds or the attempt budget is exhausted.
// On success the result captured by op is left in place and nil is
// returned; no backoff sleep follows a successful attempt. After the final
// failed attempt the last error is returned wrapped with max-retries
// context. Context cancellation aborts both the backoff sleep and the next
// attempt.
func (f *Fetcher) Execute(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == f.maxRetries-1 {
			break
		}

		delay := f.backoffDelay()
		f.log.WithError(err).WithFields(map[string]interface{}{
			"attempt":  attempt + 1,
			"sleep_ms": delay.Milliseconds(),
		}).Warn("Fetch failed, retrying after backoff")

		if sleepErr := f.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}

	f.log.WithError(lastErr).WithField("attempts", f.maxRetries).Error("Max retries reached")
	return fmt.Errorf("max retries reached after %d attempts: %w", f.maxRetries, lastErr)
}

// backoffDelay draws a fresh jitter value per retry.
func (f *Fetcher) backoffDelay() time.Duration {
	return f.baseDelay + time.Duration(f.randFloat()*float64(f.jitter))
}

// sleepContext suspends only the calling goroutine for d, waking early if
// the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
