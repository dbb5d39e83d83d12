// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const chatRequestSchema = `{
	"type": "object",
	"properties": {
		"userId":      {"type": "string", "minLength": 1},
		"sessionId":   {"type": "string", "minLength": 1},
		"userMessage": {"type": "string", "minLength": 1, "maxLength": 4000},
		"language":    {"type": "string", "pattern": "^[a-z]{2}$"}
	},
	"required": ["userId", "sessionId", "userMessage"],
	"additionalProperties": false
}`

var chatRequestLoader = gojsonschema.NewStringLoader(chatRequestSchema)

// ValidateChatRequest checks the raw request body against the chat schema and
// returns a single readable error listing every violation.
func ValidateChatRequest(body []byte) error {
	result, err := gojsonschema.Validate(chatRequestLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validate request: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid chat request: %s", strings.Join(msgs, "; "))
}
