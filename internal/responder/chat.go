// internal/responder/chat.go
package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leadbot/internal/common/config"
	stderr "leadbot/internal/common/errors"
	"leadbot/internal/common/logger"
	"leadbot/internal/common/metrics"
	"leadbot/internal/models"
)

var (
	ErrGenerationFailed  = errors.New("RESPONDER_FAILED")
	ErrGenerationTimeout = errors.New("RESPONDER_TIMEOUT")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// ChatResponder calls an Ollama-compatible chat endpoint. The model name is
// picked per tier from config; the cloud tier points at a stronger model
// behind the same gateway.
type ChatResponder struct {
	config config.ResponderConfig
	client *http.Client
	logger logger.Logger
}

func NewChatResponder(cfg config.ResponderConfig, log logger.Logger) *ChatResponder {
	return &ChatResponder{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
		logger: log.WithFields(map[string]interface{}{"component": "responder"}),
	}
}

// Generate builds the prompt from the current profile and conversation and
// asks the tier's model for a reply. Every failure path degrades to the fixed
// apology so extraction and scoring still run against the user's message.
func (r *ChatResponder) Generate(ctx context.Context, state *models.ConversationState, userMessage, language string, tier models.ModelTier) string {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(r.config.Timeout)*time.Millisecond)
	defer cancel()

	reply, err := r.generate(callCtx, state, userMessage, language, tier)
	if err != nil {
		metrics.ResponderFailures.Inc()
		std := stderr.NewResponderFailedError(err.Error())
		if errors.Is(err, ErrGenerationTimeout) {
			std = stderr.NewResponderTimeoutError(err.Error())
		}
		r.logger.WithError(std).Warn("responder degraded to apology reply", map[string]interface{}{
			"sessionId": state.SessionID,
			"tier":      tier,
		})
		return ApologyReply
	}
	return reply
}

func (r *ChatResponder) generate(ctx context.Context, state *models.ConversationState, userMessage, language string, tier models.ModelTier) (string, error) {
	model := r.config.LocalModel
	if tier == models.TierCloud {
		model = r.config.CloudModel
	}

	messages := []chatMessage{{Role: "system", Content: buildSystemPrompt(state.LeadProfile, language)}}
	for _, m := range state.Messages {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	body, _ := json.Marshal(chatPayload{Model: model, Messages: messages, Stream: false})

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrGenerationTimeout
			}
		}

		// A fresh request per attempt; the body reader is consumed by Do.
		req, err := http.NewRequestWithContext(ctx, "POST", r.config.BaseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = r.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", ErrGenerationTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrGenerationFailed)
	}
	defer resp.Body.Close()

	// The chat endpoint answers with message.content; the generate endpoint
	// with a bare response field. Accept either.
	var apiResponse struct {
		Message  *chatMessage `json:"message"`
		Response string       `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}

	switch {
	case apiResponse.Message != nil && apiResponse.Message.Content != "":
		return apiResponse.Message.Content, nil
	case apiResponse.Response != "":
		return apiResponse.Response, nil
	default:
		return "", fmt.Errorf("%w: unexpected response format", ErrGenerationFailed)
	}
}
