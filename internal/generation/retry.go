package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/phrazzld/vokabel/internal/rng"
)

// RetryPolicy bounds the retries of a model call.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// NewRetryPolicy builds a policy from the configured values, falling back to
// 2 retries and a 1s base delay for out-of-range input.
func NewRetryPolicy(maxRetries, delaySeconds int) RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 2
	}
	if delaySeconds < 0 {
		delaySeconds = 1
	}
	return RetryPolicy{MaxRetries: maxRetries, BaseDelay: time.Duration(delaySeconds) * time.Second}
}

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrGenerationFailed) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidRequest)
}

// Retry calls fn until it succeeds, fails permanently, or the policy is
// exhausted. Delays grow as base * 2^attempt scaled by a jitter in [0.5, 1).
func Retry[T any](
	ctx context.Context,
	logger *slog.Logger,
	policy RetryPolicy,
	rnd rng.Source,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		logger.DebugContext(ctx, "calling language model",
			"attempt", attempt+1,
			"max_attempts", policy.MaxRetries+1)

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("%w: %v", ErrTransientFailure, ctxErr)
		}
		if IsPermanent(err) {
			logger.WarnContext(ctx, "permanent generation error, not retrying",
				"attempt", attempt+1,
				"error", err)
			return zero, err
		}
		if attempt >= policy.MaxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", policy.MaxRetries,
				"error", err)
			return zero, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, policy.MaxRetries, err)
		}

		backoff := float64(policy.BaseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rnd.Float64()*0.5))

		logger.InfoContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"delay", delay.String(),
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
