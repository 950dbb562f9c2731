package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrAllBackendsUnavailable signals that every backend in the ranked list
// failed for a single Complete call. The last underlying error is wrapped.
var ErrAllBackendsUnavailable = errors.New("llm: all backends unavailable")

// Gateway sends a completion request to a ranked list of backends and
// returns the first successful result. Backends are tried strictly in order,
// each bounded by its own timeout; no backend is retried within a single
// call, and a fresh call always restarts from the first backend.
type Gateway struct {
	backends []Backend
	timeout  time.Duration
	log      zerolog.Logger
}

// NewGateway creates a gateway over the given ranked backend list.
// timeout bounds each individual backend request.
func NewGateway(backends []Backend, timeout time.Duration, log zerolog.Logger) *Gateway {
	return &Gateway{
		backends: backends,
		timeout:  timeout,
		log:      log,
	}
}

// Complete iterates the backends in priority order and returns the first
// non-empty completion. On exhaustion it returns ErrAllBackendsUnavailable
// wrapping the last backend error.
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	if len(g.backends) == 0 {
		return "", fmt.Errorf("%w: no backends configured", ErrAllBackendsUnavailable)
	}

	var lastErr error
	for _, backend := range g.backends {
		backendReq := req
		if backendReq.WantsJSON && !backend.SupportsJSONMode() {
			// The backend would not honor the hint; send plain messages.
			backendReq.WantsJSON = false
		}

		backendCtx, cancel := context.WithTimeout(ctx, g.timeout)
		text, err := backend.Complete(backendCtx, backendReq)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("backend %s: %w", backend.Name(), err)
			g.log.Warn().
				Err(err).
				Str("backend", backend.Name()).
				Msg("Backend failed, trying next")
			continue
		}
		if strings.TrimSpace(text) == "" {
			lastErr = fmt.Errorf("backend %s: empty completion", backend.Name())
			g.log.Warn().
				Str("backend", backend.Name()).
				Msg("Backend returned empty completion, trying next")
			continue
		}

		return text, nil
	}

	return "", fmt.Errorf("%w: %w", ErrAllBackendsUnavailable, lastErr)
}
