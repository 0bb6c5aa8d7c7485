package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ProyectoMep/Colegiosapp/internal/models"
	appErrors "github.com/ProyectoMep/Colegiosapp/pkg/errors"
)

const draftKeyPrefix = "booking:draft:"

// DraftRepository stores the per-session booking draft in Redis. One draft per
// session key; entries expire after the configured TTL or on explicit delete,
// whichever comes first.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDraftRepository constructs a draft repository.
func NewDraftRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *DraftRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftRepository{client: client, ttl: ttl, logger: logger}
}

// Put stages a draft under the session key, replacing any previous draft.
func (r *DraftRepository) Put(ctx context.Context, sessionKey string, draft *models.BookingDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal booking draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(sessionKey), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("stage booking draft: %w", err)
	}
	return nil
}

// Get loads the staged draft, or ErrNoActiveDraft when nothing is staged or
// the entry has expired.
func (r *DraftRepository) Get(ctx context.Context, sessionKey string) (*models.BookingDraft, error) {
	raw, err := r.client.Get(ctx, draftKey(sessionKey)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrNoActiveDraft
		}
		return nil, fmt.Errorf("load booking draft: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal booking draft: %w", err)
	}
	return &draft, nil
}

// Delete clears the staged draft. Missing keys are not an error.
func (r *DraftRepository) Delete(ctx context.Context, sessionKey string) error {
	if err := r.client.Del(ctx, draftKey(sessionKey)).Err(); err != nil {
		return fmt.Errorf("clear booking draft: %w", err)
	}
	return nil
}

func draftKey(sessionKey string) string {
	return draftKeyPrefix + sessionKey
}
