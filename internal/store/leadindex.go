// internal/store/leadindex.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadbot/internal/common/logger"
	"leadbot/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESLeadIndex mirrors qualified leads into Elasticsearch so the sales team
// can search them from the dashboard.
type ESLeadIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewESLeadIndex(client *elasticsearch.Client, index string, log logger.Logger) *ESLeadIndex {
	return &ESLeadIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "lead-index"}),
	}
}

type leadDocument struct {
	SessionID string             `json:"sessionId"`
	Profile   models.LeadProfile `json:"profile"`
	Score     int                `json:"score"`
	IndexedAt time.Time          `json:"indexedAt"`
}

// Index upserts the lead document using the session id as document id.
func (i *ESLeadIndex) Index(ctx context.Context, sessionID string, profile models.LeadProfile, score int) error {
	doc, err := json.Marshal(leadDocument{
		SessionID: sessionID,
		Profile:   profile,
		Score:     score,
		IndexedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal lead document: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(doc),
		i.client.Index.WithDocumentID(sessionID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index lead: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index lead: %s", res.Status())
	}
	return nil
}

// Search runs a multi-field match over the indexed leads.
func (i *ESLeadIndex) Search(ctx context.Context, query string) ([]models.LeadProfile, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": query,
				"fields": []string{
					"profile.name", "profile.targetLocation",
					"profile.propertyType", "profile.budgetRange",
				},
			},
		},
		"sort": []map[string]interface{}{
			{"score": map[string]string{"order": "desc"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search leads: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source leadDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	profiles := make([]models.LeadProfile, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		profiles = append(profiles, hit.Source.Profile)
	}
	return profiles, nil
}
