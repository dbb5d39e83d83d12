// internal/store/store.go
package store

import (
	"context"

	"leadbot/internal/models"
)

// Persistence is the durable sink for lead records and transcripts. Both
// operations are best-effort from the workflow's perspective: errors are
// returned for logging but never fail a turn.
type Persistence interface {
	SaveLead(ctx context.Context, sessionID string, profile models.LeadProfile, score int) error
	LogConversation(ctx context.Context, sessionID string, messages []models.ConversationMessage) error
}

// SessionStore owns conversation state between turns.
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID, sessionID string) (*models.ConversationState, error)
	Save(ctx context.Context, state *models.ConversationState) error
	List(ctx context.Context) ([]*models.ConversationState, error)
}

// ReplyCache short-circuits repeated identical turns.
type ReplyCache interface {
	Get(ctx context.Context, contextHash, userMessage string) (string, bool)
	Set(ctx context.Context, contextHash, userMessage, reply string) error
}

// LeadIndex makes qualified leads searchable for the sales dashboard.
type LeadIndex interface {
	Index(ctx context.Context, sessionID string, profile models.LeadProfile, score int) error
	Search(ctx context.Context, query string) ([]models.LeadProfile, error)
}
