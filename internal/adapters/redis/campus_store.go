package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campus_life/internal/domain"
)

// CampusStore keeps the selected campus per session. Every Load or Save slides the TTL.
type CampusStore struct {
	c   *redis.Client
	ttl time.Duration
}

func NewCampusStore(c *redis.Client, ttl time.Duration) *CampusStore {
	return &CampusStore{c: c, ttl: ttl}
}

func campusKey(session string) string { return fmt.Sprintf("session:%s:campus", session) }

func (s *CampusStore) Save(ctx context.Context, session string, c domain.Campus) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, campusKey(session), b, s.ttl).Err()
}

func (s *CampusStore) Load(ctx context.Context, session string) (domain.Campus, bool, error) {
	v, err := s.c.GetEx(ctx, campusKey(session), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Campus{}, false, nil
	}
	if err != nil {
		return domain.Campus{}, false, err
	}
	var c domain.Campus
	if err := json.Unmarshal(v, &c); err != nil {
		// a corrupt entry is as good as none
		_ = s.c.Del(ctx, campusKey(session)).Err()
		return domain.Campus{}, false, nil
	}
	return c, true, nil
}

func (s *CampusStore) Clear(ctx context.Context, session string) error {
	return s.c.Del(ctx, campusKey(session)).Err()
}
