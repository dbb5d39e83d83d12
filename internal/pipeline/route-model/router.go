// internal/pipeline/route-model/router.go
package routemodel

import (
	"strings"

	"leadbot/internal/models"
)

// Topics that warrant the stronger (and costlier) cloud model.
var complexTopics = []string{
	"roi", "return on investment", "yield", "capital appreciation",
	"market analysis", "trends", "forecast", "legal", "mortgage", "financing",
}

// stagnationThreshold is the attempt count at which repeated turns without a
// status change force an escalation.
const stagnationThreshold = 2

// Router decides which model tier the responder should use. Pure, no I/O.
type Router struct{}

func New() *Router {
	return &Router{}
}

// Route escalates to the cloud tier when the message touches a complex topic
// or the conversation has stagnated for too many turns.
func (r *Router) Route(message string, attempts int) models.ModelTier {
	msgLower := strings.ToLower(message)

	for _, topic := range complexTopics {
		if strings.Contains(msgLower, topic) {
			return models.TierCloud
		}
	}

	if attempts >= stagnationThreshold {
		return models.TierCloud
	}

	return models.TierLocal
}

// EscalationReason reports why a message would escalate, for metrics.
// Returns "" when the route stays local.
func (r *Router) EscalationReason(message string, attempts int) string {
	msgLower := strings.ToLower(message)
	for _, topic := range complexTopics {
		if strings.Contains(msgLower, topic) {
			return "complex_topic"
		}
	}
	if attempts >= stagnationThreshold {
		return "stagnation"
	}
	return ""
}
