// internal/models/lead.go
package models

// QualificationStatus is the coarse stage of a lead's readiness.
type QualificationStatus string

const (
	StatusInitial     QualificationStatus = "INITIAL"
	StatusDiscovery   QualificationStatus = "DISCOVERY"
	StatusQualified   QualificationStatus = "QUALIFIED"
	StatusNeedsReview QualificationStatus = "NEEDS_REVIEW"
)

// LeadProfile holds everything the heuristics have learned about a lead.
// Fields are only ever set to a non-empty value or left untouched; no rule
// clears a previously populated field.
type LeadProfile struct {
	InvestmentType     string `json:"investmentType,omitempty" db:"investment_type"`
	BudgetRange        string `json:"budgetRange,omitempty" db:"budget"`
	PropertyType       string `json:"propertyType,omitempty" db:"property_type"`
	Bedrooms           string `json:"bedrooms,omitempty" db:"bedrooms"`
	TargetLocation     string `json:"targetLocation,omitempty" db:"location"`
	Urgency            string `json:"urgency,omitempty" db:"urgency"`
	Name               string `json:"name,omitempty" db:"name"`
	PhoneNumber        string `json:"phoneNumber,omitempty" db:"phone_number"`
	Email              string `json:"email,omitempty" db:"email"`
	LanguagePreference string `json:"languagePreference" db:"language"`
	LeadScore          int    `json:"leadScore" db:"score"`
}

// NewLeadProfile returns a profile with the defaults applied.
func NewLeadProfile() LeadProfile {
	return LeadProfile{LanguagePreference: "en"}
}

// CoreFields returns the five discovery fields in their canonical order.
func (p LeadProfile) CoreFields() []string {
	return []string{p.InvestmentType, p.BudgetRange, p.PropertyType, p.Bedrooms, p.TargetLocation}
}

// HasContact reports whether both name and phone number are known.
func (p LeadProfile) HasContact() bool {
	return p.Name != "" && p.PhoneNumber != ""
}
