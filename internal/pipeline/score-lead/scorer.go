// internal/pipeline/score-lead/scorer.go
package scorelead

import (
	"regexp"

	"leadbot/internal/models"
)

// Weights for the heuristic lead score.
const (
	fieldWeight     = 10
	budgetBonus     = 30
	urgencyBonus    = 20
	nameBonus       = 20
	phoneBonus      = 40
	MaxScore        = 200
	highUrgencyMark = "High"
)

// millionRe matches a numeric token carrying an m/million magnitude. The
// budget field stores the raw user message, so the check is anchored to a
// number rather than bare substring containment of "m".
var millionRe = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:m\b|million)`)

// Scorer computes the integer lead score from a profile. Pure and
// deterministic: the score is recomputed from scratch on every call.
type Scorer struct{}

func New() *Scorer {
	return &Scorer{}
}

// Score returns the heuristic lead value in [0, MaxScore].
func (s *Scorer) Score(profile models.LeadProfile) int {
	score := 0

	for _, f := range []string{
		profile.InvestmentType, profile.BudgetRange, profile.PropertyType,
		profile.Bedrooms, profile.TargetLocation,
		profile.Name, profile.PhoneNumber, profile.Email,
	} {
		if f != "" {
			score += fieldWeight
		}
	}

	if profile.BudgetRange != "" && millionRe.MatchString(profile.BudgetRange) {
		score += budgetBonus
	}

	if profile.Urgency == highUrgencyMark {
		score += urgencyBonus
	}

	// Contact info is gold.
	if profile.Name != "" {
		score += nameBonus
	}
	if profile.PhoneNumber != "" {
		score += phoneBonus
	}

	return score
}
