package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisJournal keeps the slot under one fixed key per user. The value
// carries a TTL matching the recovery freshness window, so a stale slot
// also expires server-side without a launch ever reading it.
type RedisJournal struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisJournal(client *redis.Client, userID uint64, ttl time.Duration) *RedisJournal {
	return &RedisJournal{
		client: client,
		key:    fmt.Sprintf("recovery:user:%d", userID),
		ttl:    ttl,
	}
}

func (j *RedisJournal) Read() (*Entry, error) {
	data, err := j.client.Get(context.Background(), j.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &entry, nil
}

func (j *RedisJournal) Write(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return j.client.Set(context.Background(), j.key, data, j.ttl).Err()
}

func (j *RedisJournal) Clear() error {
	return j.client.Del(context.Background(), j.key).Err()
}
