// internal/responder/responder.go
package responder

import (
	"context"

	"leadbot/internal/models"
)

// ApologyReply is returned whenever the model call fails or times out. A
// responder failure never surfaces as an error into the pipeline.
const ApologyReply = "I apologize, but I am having trouble connecting to my brain right now. Please try again in a moment."

// Responder generates the assistant reply for one turn. Implementations must
// degrade to ApologyReply on failure rather than returning an error.
type Responder interface {
	Generate(ctx context.Context, state *models.ConversationState, userMessage, language string, tier models.ModelTier) string
}
