// internal/pipeline/extract-profile/extractor_test.go
package extractprofile

import (
	"testing"

	"leadbot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExtract_DiscoveryMessage(t *testing.T) {
	e := New()
	msg := "I'm looking for an off-plan apartment, 2 bedrooms in Downtown, budget $500k"

	profile := e.Extract(msg, models.NewLeadProfile())

	assert.Equal(t, "Off-plan", profile.InvestmentType)
	assert.Equal(t, "Apartment", profile.PropertyType)
	assert.Equal(t, "2 Bedroom(s)", profile.Bedrooms)
	assert.Equal(t, "Downtown", profile.TargetLocation)
	assert.Equal(t, msg, profile.BudgetRange, "budget stores the raw message")
	assert.Empty(t, profile.Name, "'looking' must not be captured as a name")
	assert.Empty(t, profile.PhoneNumber)
}

func TestExtract_InvestmentType(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"off-plan hyphenated", "interested in off-plan projects", "Off-plan"},
		{"off plan spaced", "any off plan options?", "Off-plan"},
		{"ready", "I want something ready to move in", "Ready/Secondary"},
		{"secondary", "secondary market only", "Ready/Secondary"},
		{"off-plan wins over ready", "off-plan or ready, show me both", "Off-plan"},
		{"no cue", "hello there", ""},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := e.Extract(tt.message, models.NewLeadProfile())
			assert.Equal(t, tt.expected, profile.InvestmentType)
		})
	}
}

func TestExtract_Budget(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantSet bool
	}{
		{"currency word with magnitude", "budget is 2 million dollars", true},
		{"k suffix", "my budget is 500k dollars", true},
		{"currency symbol counts as magnitude cue", "around $750000", true},
		{"number without currency cue", "I have 2 million saved", false},
		{"currency cue without number", "my budget is flexible", false},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := e.Extract(tt.message, models.NewLeadProfile())
			if tt.wantSet {
				assert.Equal(t, tt.message, profile.BudgetRange)
			} else {
				assert.Empty(t, profile.BudgetRange)
			}
		})
	}
}

func TestExtract_Bedrooms(t *testing.T) {
	e := New()

	profile := e.Extract("a 3 bed place please", models.NewLeadProfile())
	assert.Equal(t, "3 Bedroom(s)", profile.Bedrooms)

	profile = e.Extract("a studio or 2br, studio preferred", models.NewLeadProfile())
	assert.Equal(t, "Studio", profile.Bedrooms, "studio wins outright")
}

func TestExtract_LocationLastMatchWins(t *testing.T) {
	e := New()
	profile := e.Extract("either Downtown or the Marina", models.NewLeadProfile())
	assert.Equal(t, "Marina", profile.TargetLocation)
}

func TestExtract_Urgency(t *testing.T) {
	e := New()

	profile := e.Extract("I need it ASAP", models.NewLeadProfile())
	assert.Equal(t, "High", profile.Urgency)

	profile = e.Extract("no rush at all", models.NewLeadProfile())
	assert.Empty(t, profile.Urgency)
}

func TestExtract_ArabicForcesLanguage(t *testing.T) {
	e := New()
	profile := e.Extract("مرحبا I want a villa", models.NewLeadProfile())
	assert.Equal(t, "ar", profile.LanguagePreference)
	assert.Equal(t, "Villa", profile.PropertyType)
}

func TestExtract_ContactDetails(t *testing.T) {
	e := New()
	msg := "My name is John Smith, call me on +971501234567 or john@example.com"

	profile := e.Extract(msg, models.NewLeadProfile())

	assert.Equal(t, "John Smith", profile.Name)
	assert.Equal(t, "+971501234567", profile.PhoneNumber)
	assert.Equal(t, "john@example.com", profile.Email)
}

func TestExtract_PhoneRequiresNineDigits(t *testing.T) {
	e := New()
	profile := e.Extract("call me on 12345678", models.NewLeadProfile())
	assert.Empty(t, profile.PhoneNumber, "8 digits is below the minimum")
}

func TestExtract_NamePatterns(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"my name is", "my name is Sarah", "Sarah"},
		{"i am", "i am ahmed khan", "Ahmed Khan"},
		{"call me", "call me Bob", "Bob"},
		{"forbidden falls through", "I am looking for a villa, call me Bob", "Bob"},
		{"forbidden only", "I am interested in apartments", ""},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := e.Extract(tt.message, models.NewLeadProfile())
			assert.Equal(t, tt.expected, profile.Name)
		})
	}
}

func TestExtract_MonotonicRetention(t *testing.T) {
	e := New()

	profile := e.Extract("off-plan apartment in Downtown, budget $2 million", models.NewLeadProfile())
	assert.Equal(t, "Apartment", profile.PropertyType)

	// A fact-free follow-up never clears populated fields.
	after := e.Extract("sounds good, tell me more", profile)
	assert.Equal(t, profile, after)
}

func TestExtract_IdempotentForFactFreeMessage(t *testing.T) {
	e := New()
	profile := models.NewLeadProfile()

	once := e.Extract("hello", profile)
	twice := e.Extract("hello", once)

	assert.Equal(t, once, twice)
}
