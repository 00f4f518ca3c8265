package service

import (
	"context"
	"time"

	"github.com/bennati/checklist-bff/internal/core/ports"
)

const defaultGatewayTimeout = 15 * time.Second

// gatewayContext detaches a backend call from the caller's cancellation:
// navigating away must not abort a request already issued. The call is still
// bounded by timeout and carries the session's bearer token.
func gatewayContext(ctx context.Context, token string, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	if token != "" {
		detached = ports.WithBearerToken(detached, token)
	}
	return detached, cancel
}
