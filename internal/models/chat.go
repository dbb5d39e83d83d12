// internal/models/chat.go
package models

// ModelTier is the responder's backing model class.
type ModelTier string

const (
	TierLocal ModelTier = "Local"
	TierCloud ModelTier = "Cloud"
)

// ChatRequest is the inbound payload for one conversation turn.
type ChatRequest struct {
	UserID      string `json:"userId"`
	SessionID   string `json:"sessionId"`
	UserMessage string `json:"userMessage"`
	Language    string `json:"language,omitempty"`
}

// ChatResponse is what the chat endpoint returns to the widget.
type ChatResponse struct {
	Reply               string              `json:"reply"`
	LeadProfile         LeadProfile         `json:"leadProfile"`
	QualificationStatus QualificationStatus `json:"qualificationStatus"`
	LeadScore           int                 `json:"leadScore"`
	ModelTier           ModelTier           `json:"modelTier"`
}

// TurnResult is the workflow's output for one completed turn.
type TurnResult struct {
	Reply     string              `json:"reply"`
	Profile   LeadProfile         `json:"leadProfile"`
	Status    QualificationStatus `json:"qualificationStatus"`
	Score     int                 `json:"leadScore"`
	ModelTier ModelTier           `json:"modelTier"`
	Attempts  int                 `json:"extractionAttempts"`
}
