// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"leadbot/internal/common/logger"
	"leadbot/internal/models"
)

// PostgresStore persists lead records and conversation transcripts.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "postgres-store"}),
	}
}

// SaveLead upserts the lead record keyed by session id.
func (s *PostgresStore) SaveLead(ctx context.Context, sessionID string, profile models.LeadProfile, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (
			session_id, investment_type, budget, property_type, bedrooms,
			location, language, urgency, name, phone_number, email, score, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (session_id) DO UPDATE SET
			investment_type = EXCLUDED.investment_type,
			budget          = EXCLUDED.budget,
			property_type   = EXCLUDED.property_type,
			bedrooms        = EXCLUDED.bedrooms,
			location        = EXCLUDED.location,
			language        = EXCLUDED.language,
			urgency         = EXCLUDED.urgency,
			name            = EXCLUDED.name,
			phone_number    = EXCLUDED.phone_number,
			email           = EXCLUDED.email,
			score           = EXCLUDED.score,
			updated_at      = EXCLUDED.updated_at`,
		sessionID, profile.InvestmentType, profile.BudgetRange, profile.PropertyType,
		profile.Bedrooms, profile.TargetLocation, profile.LanguagePreference,
		profile.Urgency, profile.Name, profile.PhoneNumber, profile.Email,
		score, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	return nil
}

// LogConversation upserts the full transcript as JSON keyed by session id.
func (s *PostgresStore) LogConversation(ctx context.Context, sessionID string, messages []models.ConversationMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, messages, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			messages   = EXCLUDED.messages,
			updated_at = EXCLUDED.updated_at`,
		sessionID, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert conversation: %w", err)
	}
	return nil
}
