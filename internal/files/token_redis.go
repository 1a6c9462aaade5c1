package files

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps the credential in redis, for lab and kiosk machines
// that share a session service. The key is namespaced per device.
type RedisTokenStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisClient connects to a single redis node.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
}

// NewRedisTokenStore stores under "<prefix>:session:<device>". A zero ttl keeps
// the key until logout.
func NewRedisTokenStore(client redis.UniversalClient, prefix, device string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: prefix + ":session:" + device, ttl: ttl}
}

// Key returns the redis key used for this device.
func (s *RedisTokenStore) Key() string { return s.key }

func (s *RedisTokenStore) Load(ctx context.Context) (string, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return "", err
	}
	if rec.AccessToken == "" {
		return "", ErrNoToken
	}
	return rec.AccessToken, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, token string) error {
	b, err := json.Marshal(tokenRecord{AccessToken: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, b, s.ttl).Err()
}

func (s *RedisTokenStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
