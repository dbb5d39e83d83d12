// internal/pipeline/classify-qualification/classifier.go
package classifyqualification

import "leadbot/internal/models"

// Classifier maps a profile to its qualification status. Pure; NEEDS_REVIEW
// is never produced here (the workflow's stagnation rule owns it).
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify applies the decision order:
//  1. contact complete (name+phone) plus any concrete interest -> QUALIFIED
//  2. all five core fields plus any contact field -> QUALIFIED
//  3. any core field, or contact complete -> DISCOVERY
//  4. otherwise INITIAL
func (c *Classifier) Classify(profile models.LeadProfile) models.QualificationStatus {
	hasContact := profile.HasContact()
	hasInterest := profile.PropertyType != "" || profile.BudgetRange != ""

	if hasContact && hasInterest {
		return models.StatusQualified
	}

	core := profile.CoreFields()
	allCore := true
	anyCore := false
	for _, f := range core {
		if f == "" {
			allCore = false
		} else {
			anyCore = true
		}
	}

	anyContactField := profile.Name != "" || profile.PhoneNumber != "" || profile.Email != ""
	if allCore && anyContactField {
		return models.StatusQualified
	}

	if anyCore || hasContact {
		return models.StatusDiscovery
	}

	return models.StatusInitial
}
