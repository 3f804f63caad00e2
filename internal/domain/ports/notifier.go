package ports

import (
	"context"
	"errors"

	"solicitacao-compras/internal/domain/model"
)

// ErrNotifierNotConfigured marks a Send that was skipped because the
// channel has no destination. Callers treat it as "not attempted",
// never as a delivery failure.
var ErrNotifierNotConfigured = errors.New("notifier is not configured")

// Notifier sends best-effort notifications to downstream channels (e.g. Discord).
type Notifier interface {
	Send(ctx context.Context, notification model.Notification) error
}
