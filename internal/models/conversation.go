// internal/models/conversation.go
package models

import "time"

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ConversationMessage is immutable once created and appended in order.
type ConversationMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConversationState is the per-session state handed to the workflow for one
// turn. Between turns the session store is the durable owner.
type ConversationState struct {
	SessionID     string                `json:"sessionId"`
	UserID        string                `json:"userId"`
	Messages      []ConversationMessage `json:"messages"`
	LeadProfile   LeadProfile           `json:"leadProfile"`
	Status        QualificationStatus   `json:"qualificationStatus"`
	Attempts      int                   `json:"extractionAttempts"`
	Language      string                `json:"language"`
	LastModelTier ModelTier             `json:"modelUsed,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// NewConversationState creates the state for a fresh session.
func NewConversationState(sessionID, userID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		SessionID:   sessionID,
		UserID:      userID,
		LeadProfile: NewLeadProfile(),
		Status:      StatusInitial,
		Language:    "en",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append adds a message to the ordered sequence with the current timestamp.
func (s *ConversationState) Append(role MessageRole, content string) {
	s.Messages = append(s.Messages, ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	s.UpdatedAt = time.Now().UTC()
}

// LastAssistantMessage returns the most recent assistant reply, or "".
func (s *ConversationState) LastAssistantMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}
