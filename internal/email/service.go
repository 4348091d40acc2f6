package email

import (
	"context"
)

// Service delivers email. Implementations are expected to be slow; callers
// dispatch through the notifier, never inline in a request path.
type Service interface {
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}
