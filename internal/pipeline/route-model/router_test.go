// internal/pipeline/route-model/router_test.go
package routemodel

import (
	"testing"

	"leadbot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		attempts int
		expected models.ModelTier
	}{
		{"simple greeting", "hi", 0, models.TierLocal},
		{"mortgage escalates regardless of attempts", "what about a mortgage?", 0, models.TierCloud},
		{"roi escalates", "what ROI can I expect?", 0, models.TierCloud},
		{"multi-word topic", "show me a market analysis", 0, models.TierCloud},
		{"stagnation at threshold", "hi", 2, models.TierCloud},
		{"stagnation above threshold", "hi", 5, models.TierCloud},
		{"one attempt stays local", "hi", 1, models.TierLocal},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Route(tt.message, tt.attempts))
		})
	}
}

func TestEscalationReason(t *testing.T) {
	r := New()

	assert.Equal(t, "complex_topic", r.EscalationReason("need financing advice", 0))
	assert.Equal(t, "stagnation", r.EscalationReason("hi", 2))
	assert.Equal(t, "", r.EscalationReason("hi", 0))

	// Topic wins when both apply.
	assert.Equal(t, "complex_topic", r.EscalationReason("legal question", 4))
}
