// internal/responder/prompt.go
package responder

import (
	"fmt"
	"strings"

	"leadbot/internal/models"
)

const basePrompt = `You are a highly professional, polite, and data-driven Real Estate Lead Qualification Specialist, representing **Everest View Property**.
You focus exclusively on **SALES** transactions (not leasing).

Your goal is to QUALIFY the user by collecting these five mandatory fields:

1. Investment Type – Off-plan or Ready/Secondary
2. Budget – Specific range (including currency, e.g., $500k-$1M)
3. Property Type – Apartment, Villa, Townhouse, or Land
4. Bedrooms – Studio, 1, 2, 3+
5. Target Location – Specific area or neighborhood

**Rules of Engagement**
1. **IMPORTANT**: You MUST reply in the requested language: **%s**.
2. **BREVITY**: Keep responses SHORT, CRISP, and CONCISE. Max 2 sentences where possible. Avoid fluff.
3. If user asks about rentals or unrelated topics, politely redirect to finding a home/investment for sale.
4. Ask for one missing field at a time.
5. After each answer, confirm briefly and move to the next missing field.
6. When all five are filled, mark lead as QUALIFIED and end with a summary.`

// buildSystemPrompt embeds the current profile state so the model asks only
// for fields that are still missing.
func buildSystemPrompt(profile models.LeadProfile, language string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(basePrompt, languageName(language)))
	sb.WriteString("\n\nCurrent Lead Profile State:\n")
	sb.WriteString(fmt.Sprintf("- Investment Type: %s\n", orUnknown(profile.InvestmentType)))
	sb.WriteString(fmt.Sprintf("- Budget: %s\n", orUnknown(profile.BudgetRange)))
	sb.WriteString(fmt.Sprintf("- Property Type: %s\n", orUnknown(profile.PropertyType)))
	sb.WriteString(fmt.Sprintf("- Bedrooms: %s\n", orUnknown(profile.Bedrooms)))
	sb.WriteString(fmt.Sprintf("- Location: %s\n", orUnknown(profile.TargetLocation)))
	sb.WriteString(fmt.Sprintf("- Language Preference: %s\n", language))
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func languageName(code string) string {
	switch code {
	case "ar":
		return "Arabic"
	default:
		return "English"
	}
}
