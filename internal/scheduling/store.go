package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	draftKeyPrefix  = "booking_draft:"
	defaultDraftTTL = 30 * time.Minute
)

// DraftStore keeps in-progress drafts in Redis. The TTL bounds how long an
// abandoned tab can hold one, and nothing is ever written through to the
// HIS from here.
type DraftStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

func NewDraftStore(redisClient *redis.Client, ttl time.Duration) *DraftStore {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &DraftStore{
		redis:  redisClient,
		tracer: otel.Tracer("console.internal.scheduling.drafts"),
		ttl:    ttl,
	}
}

// Save writes the draft and refreshes its TTL. A zero-ID draft is assigned
// one.
func (s *DraftStore) Save(ctx context.Context, d *Draft) error {
	if s == nil || s.redis == nil {
		return errors.New("scheduling: draft store not configured")
	}
	if d == nil {
		return errors.New("scheduling: nil draft")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("scheduling: marshal draft: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "scheduling.drafts.save")
	defer span.End()

	if err := s.redis.Set(ctx, draftKey(d.ID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("scheduling: save draft: %w", err)
	}
	return nil
}

// Get loads a draft by id. Expired and unknown ids both return
// ErrDraftNotFound; the caller cannot tell them apart and does not need to.
func (s *DraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	if s == nil || s.redis == nil {
		return nil, errors.New("scheduling: draft store not configured")
	}
	if id == "" {
		return nil, ErrDraftNotFound
	}

	ctx, span := s.tracer.Start(ctx, "scheduling.drafts.get")
	defer span.End()

	raw, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDraftNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: load draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: unmarshal draft: %w", err)
	}
	return &d, nil
}

// Delete discards a draft. Deleting an already-gone draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.redis == nil {
		return errors.New("scheduling: draft store not configured")
	}
	if id == "" {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "scheduling.drafts.delete")
	defer span.End()

	if err := s.redis.Del(ctx, draftKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("scheduling: delete draft: %w", err)
	}
	return nil
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}
