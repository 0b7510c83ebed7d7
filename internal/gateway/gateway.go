// Package gateway sends SMS through the external messaging provider.
package gateway

import (
	"context"
	"fmt"
)

// SMS is a single outbound message. An empty From selects the gateway's
// default sender.
type SMS struct {
	From string
	To   string
	Body string
}

type SendResult struct {
	MessageID string
	Status    string
}

type Gateway interface {
	Send(ctx context.Context, msg SMS) (SendResult, error)
}

// ProviderError is returned when the provider rejects a message or cannot be
// reached. StatusCode is zero for transport failures.
type ProviderError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (http %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}
