// internal/store/session_redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadbot/internal/common/logger"
	"leadbot/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps conversation state in Redis with a TTL refreshed on
// every save.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "session-store"}),
	}
}

// GetOrCreate loads the session state or creates a fresh one on first contact.
func (s *RedisSessionStore) GetOrCreate(ctx context.Context, userID, sessionID string) (*models.ConversationState, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == nil {
		var state models.ConversationState
		if err := json.Unmarshal([]byte(val), &state); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		return &state, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	state := models.NewConversationState(sessionID, userID)
	if err := s.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, state *models.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.SessionID, err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+state.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", state.SessionID, err)
	}
	return nil
}

// List scans all stored sessions. Admin use only; not on the turn path.
func (s *RedisSessionStore) List(ctx context.Context) ([]*models.ConversationState, error) {
	var states []*models.ConversationState
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		val, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between scan and get
			}
			return nil, fmt.Errorf("load session %s: %w", iter.Val(), err)
		}
		var state models.ConversationState
		if err := json.Unmarshal([]byte(val), &state); err != nil {
			s.logger.Warn("skipping undecodable session", map[string]interface{}{
				"key":   iter.Val(),
				"error": err.Error(),
			})
			continue
		}
		states = append(states, &state)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return states, nil
}
