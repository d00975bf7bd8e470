package inference

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spherical-ai/scitrans/internal/domain"
)

// shouldRetry reports whether an attempt's outcome is transient. Only transport
// failures and 503 are retried; other statuses are returned as-is.
func shouldRetry(r Response) bool {
	if r.Err != nil {
		return true
	}
	return r.StatusCode == http.StatusServiceUnavailable
}

// retry runs attempt up to MaxAttempts times with a fixed delay in between.
func (c *Client) retry(ctx context.Context, attempt func() Response) Response {
	var last Response

	for n := 1; n <= c.cfg.MaxAttempts; n++ {
		last = attempt()
		last.Attempts = n

		if !shouldRetry(last) {
			return last
		}

		if ctx.Err() != nil || n == c.cfg.MaxAttempts {
			break
		}

		c.logger.WithContext(ctx).Warn().
			Int("attempt", n).
			Int("max_attempts", c.cfg.MaxAttempts).
			Int("status", last.StatusCode).
			Err(last.Err).
			Dur("delay", c.cfg.RetryDelay).
			Msg("Upstream call failed, retrying")

		if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
			if last.Err == nil {
				last.Err = err
			}
			break
		}
	}

	if last.Err != nil {
		last.Err = domain.APIError(fmt.Sprintf("request failed after %d attempts", last.Attempts), last.Err)
	}
	return last
}

// sleepContext is the default Sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
