// internal/notifier/notifier.go
package notifier

import (
	"context"

	"leadbot/internal/models"
)

// Notifier dispatches hot-lead alerts to the sales team. Every method is
// best-effort: failures are logged and counted, never returned to the turn.
type Notifier interface {
	SMS(ctx context.Context, profile models.LeadProfile, score int)
	Email(ctx context.Context, profile models.LeadProfile, sessionID string)
	Call(ctx context.Context)
}
