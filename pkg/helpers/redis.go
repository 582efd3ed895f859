package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and checks the server answers PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(c).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// RedisSetJSON caches value under key for ttl.
func RedisSetJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// RedisGetJSON reports false on a miss.
func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

func RedisDel(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}

// ErrNoSession means the user has no live session hash.
var ErrNoSession = errors.New("session not found")

// SessionRecord is the hash kept at user:session:<uid>. Only one session per
// user exists; a newer login overwrites SessionID.
type SessionRecord struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	SessionID string
}

func SessionKey(userID string) string { return "user:session:" + userID }

// SaveSession writes rec and expires it with the token.
func SaveSession(ctx context.Context, rdb *redis.Client, rec SessionRecord, ttl time.Duration) error {
	key := SessionKey(rec.UserID)
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    rec.UserID,
		"email":      rec.Email,
		"name":       rec.Name,
		"role":       rec.Role,
		"sid":        rec.SessionID,
		"logged_in":  true,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// CurrentSessionID returns the sid stored for userID.
func CurrentSessionID(ctx context.Context, rdb *redis.Client, userID string) (string, error) {
	sid, err := rdb.HGet(ctx, SessionKey(userID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	return sid, err
}

func DropSession(ctx context.Context, rdb *redis.Client, userID string) error {
	return RedisDel(ctx, rdb, SessionKey(userID))
}
