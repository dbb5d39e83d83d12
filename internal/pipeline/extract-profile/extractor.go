// internal/pipeline/extract-profile/extractor.go
package extractprofile

import (
	"regexp"
	"strings"

	"leadbot/internal/models"
)

// Fixed vocabularies. Order matters: for property type and location the last
// match in list order wins.
var (
	propertyTypes = []string{"Apartment", "Villa", "Townhouse", "Land", "Penthouse"}

	locations = []string{
		"Downtown", "Uptown", "Marina", "Business District", "Suburbs",
		"City Center", "Beachfront", "Hills", "Valley", "Lakeside",
	}

	urgencyCues = []string{"asap", "urgent", "now", "this month", "immediate"}

	currencyCues = []string{"$", "£", "€", "dollars", "pounds", "euros", "budget", "price", "cost"}

	// Names the casing-insensitive patterns would otherwise capture.
	forbiddenNames = []string{"looking", "interested", "searching", "buying", "selling"}
)

var (
	numericTokenRe = regexp.MustCompile(`\d+(?:[.,]\d+)?[mk]?`)
	magnitudeRe    = regexp.MustCompile(`\d+\s*(?:m|million|k|thousand)`)
	bedroomsRe     = regexp.MustCompile(`(\d+)\s*(?:br|bed|room)`)
	emailRe        = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe        = regexp.MustCompile(`(?:\+|00)?(?:\d[\s-]?){9,14}`)
	nonDigitRe     = regexp.MustCompile(`\D`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is ([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`),
		regexp.MustCompile(`(?i)i am ([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`),
		regexp.MustCompile(`(?i)call me ([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`),
	}
)

// Extractor turns free-form messages into structured lead facts using fixed
// substring and regex rules. It never fails: a rule that finds nothing leaves
// its field untouched, and no rule ever clears a populated field.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract applies every rule in fixed order against the raw user message and
// returns the updated profile. Safe for concurrent use.
func (e *Extractor) Extract(message string, profile models.LeadProfile) models.LeadProfile {
	msgLower := strings.ToLower(message)

	// 1. Investment type. Off-plan is checked first and wins when both appear.
	if strings.Contains(msgLower, "off-plan") || strings.Contains(msgLower, "off plan") {
		profile.InvestmentType = "Off-plan"
	} else if strings.Contains(msgLower, "ready") || strings.Contains(msgLower, "secondary") || strings.Contains(msgLower, "move in") {
		profile.InvestmentType = "Ready/Secondary"
	}

	// 2. Budget: a numeric token plus a currency cue plus a magnitude cue.
	// The raw message is stored, not a normalized number.
	if numericTokenRe.MatchString(msgLower) && containsAny(msgLower, currencyCues) {
		if magnitudeRe.MatchString(msgLower) || strings.ContainsAny(message, "$€£") {
			profile.BudgetRange = message
		}
	}

	// 3. Property type: last match in list order wins.
	for _, pt := range propertyTypes {
		if strings.Contains(msgLower, strings.ToLower(pt)) {
			profile.PropertyType = pt
		}
	}

	// 4. Bedrooms: "studio" wins outright.
	if strings.Contains(msgLower, "studio") {
		profile.Bedrooms = "Studio"
	} else if m := bedroomsRe.FindStringSubmatch(msgLower); m != nil {
		profile.Bedrooms = m[1] + " Bedroom(s)"
	}

	// 5. Location gazetteer: last match wins.
	for _, loc := range locations {
		if strings.Contains(msgLower, strings.ToLower(loc)) {
			profile.TargetLocation = loc
		}
	}

	// 6. Urgency: only one level exists.
	if containsAny(msgLower, urgencyCues) {
		profile.Urgency = "High"
	}

	// 7. Any Arabic-range rune forces the language preference.
	for _, r := range message {
		if r >= 0x0600 && r <= 0x06FF {
			profile.LanguagePreference = "ar"
			break
		}
	}

	// 8. Email: first match.
	if m := emailRe.FindString(message); m != "" {
		profile.Email = m
	}

	// 9. Phone: accepted only when the digit-only length is at least 9.
	if m := phoneRe.FindString(message); m != "" {
		if len(nonDigitRe.ReplaceAllString(m, "")) >= 9 {
			profile.PhoneNumber = strings.TrimSpace(m)
		}
	}

	// 10. Name: a forbidden capture falls through to the next pattern; the
	// first accepted capture is title-cased and ends the rule.
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		if isForbiddenName(m[1]) {
			continue
		}
		profile.Name = titleCase(m[1])
		break
	}

	return profile
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isForbiddenName rejects captures that start with a filler verb. The check
// runs on the first word because the greedy pattern may pull in a trailing
// word ("looking for").
func isForbiddenName(candidate string) bool {
	fields := strings.Fields(candidate)
	if len(fields) == 0 {
		return true
	}
	first := strings.ToLower(fields[0])
	for _, f := range forbiddenNames {
		if first == f {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
