package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/venuehub/server/internal/models"
)

// VenueLocker serializes booking creation per venue so the overlap check and
// the insert behave as one step.
type VenueLocker interface {
	// Acquire takes the venue lock and returns a release func. It fails with
	// ErrConflict when the lock cannot be taken in time.
	Acquire(ctx context.Context, venueID uuid.UUID) (func(), error)
}

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 5
	lockBackoff  = 100 * time.Millisecond
)

// RedisVenueLocker implements VenueLocker with a SET NX advisory lock. The TTL
// bounds how long a crashed request can hold a venue.
type RedisVenueLocker struct {
	rdb *redis.Client
}

func NewRedisVenueLocker(rdb *redis.Client) *RedisVenueLocker {
	return &RedisVenueLocker{rdb: rdb}
}

func (l *RedisVenueLocker) Acquire(ctx context.Context, venueID uuid.UUID) (func(), error) {
	key := "venue:lock:" + venueID.String()
	token := uuid.New().String()

	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := l.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire venue lock: %v", err)
		}
		if ok {
			release := func() {
				// Only delete the lock if we still own it.
				current, err := l.rdb.Get(context.Background(), key).Result()
				if err == nil && current == token {
					l.rdb.Del(context.Background(), key)
				}
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return nil, fmt.Errorf("venue is being booked by another request: %w", models.ErrConflict)
}
