package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

const (
	userKeyPrefix     = "worldsim:user:"
	worldKeyPrefix    = "worldsim:world:"
	stateKeyPrefix    = "worldsim:state:"
	messagesKeyPrefix = "worldsim:messages:"
	latestKeyPrefix   = "worldsim:latest_world:"

	commitRetries = 5
)

// RedisStore implements Store using Redis. The versioned document lives in
// a JSON envelope; CommitTurn runs under WATCH so the version check and the
// writes are one atomic step.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

type stateEnvelope struct {
	Version int64           `json:"version"`
	State   json.RawMessage `json:"state"`
}

// NewRedis creates a new Redis-backed store.
func NewRedis(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection blocks until Redis answers pings or the retry budget
// runs out.
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// GetOrCreateUser resolves a user by name. An empty name is an anonymous
// request: every caller gets a fresh user whose generated id doubles as the
// name, so the returned id resumes the session on the next request.
func (r *RedisStore) GetOrCreateUser(ctx context.Context, name string) (*User, error) {
	if name != "" {
		data, err := r.client.Get(ctx, userKeyPrefix+name).Result()
		if err == nil {
			var user User
			if err := json.Unmarshal([]byte(data), &user); err != nil {
				return nil, fmt.Errorf("unmarshal user: %w", err)
			}
			return &user, nil
		}
		if err != redis.Nil {
			return nil, fmt.Errorf("redis get user failed: %w", err)
		}
	}

	id := uuid.NewString()
	if name == "" {
		name = id
	}
	key := userKeyPrefix + name
	user := User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
	blob, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	// SETNX so two concurrent first contacts converge on one record.
	ok, err := r.client.SetNX(ctx, key, blob, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis set user failed: %w", err)
	}
	if !ok {
		return r.GetOrCreateUser(ctx, name)
	}
	return &user, nil
}

func (r *RedisStore) GetOrCreateWorld(ctx context.Context, worldID, userID string) (*World, error) {
	if worldID != "" {
		w, err := r.getWorld(ctx, worldID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("world %s not found", worldID)
		}
		return w, nil
	}

	latest, err := r.client.Get(ctx, latestKeyPrefix+userID).Result()
	if err == nil && latest != "" {
		w, err := r.getWorld(ctx, latest)
		if err != nil {
			return nil, err
		}
		if w != nil {
			return w, nil
		}
	} else if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis get latest world failed: %w", err)
	}

	now := time.Now()
	created := &World{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	blob, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("marshal world: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, worldKeyPrefix+created.ID, blob, 0)
	pipe.Set(ctx, latestKeyPrefix+userID, created.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis create world failed: %w", err)
	}
	return created, nil
}

func (r *RedisStore) getWorld(ctx context.Context, worldID string) (*World, error) {
	data, err := r.client.Get(ctx, worldKeyPrefix+worldID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get world failed: %w", err)
	}

	var w World
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("unmarshal world: %w", err)
	}
	return &w, nil
}

func (r *RedisStore) GetOrCreateWorldState(ctx context.Context, worldID string) (*world.Document, error) {
	key := stateKeyPrefix + worldID
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		doc := world.NewDocument()
		blob, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal initial state: %w", err)
		}
		envelope, err := json.Marshal(stateEnvelope{Version: 1, State: blob})
		if err != nil {
			return nil, fmt.Errorf("marshal state envelope: %w", err)
		}
		ok, err := r.client.SetNX(ctx, key, envelope, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("redis set state failed: %w", err)
		}
		if !ok {
			return r.GetOrCreateWorldState(ctx, worldID)
		}
		doc.Version = 1
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get state failed: %w", err)
	}

	var envelope stateEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal state envelope: %w", err)
	}

	var doc world.Document
	if err := json.Unmarshal(envelope.State, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal world state: %w", err)
	}
	doc.Migrate()
	doc.Version = envelope.Version
	return &doc, nil
}

func (r *RedisStore) CommitTurn(ctx context.Context, worldID string, userMsg, assistantMsg chat.StoredMessage, doc *world.Document) error {
	stateKey := stateKeyPrefix + worldID
	messagesKey := messagesKeyPrefix + worldID

	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal world state: %w", err)
	}
	envelope, err := json.Marshal(stateEnvelope{Version: doc.Version + 1, State: blob})
	if err != nil {
		return fmt.Errorf("marshal state envelope: %w", err)
	}
	userBlob, err := json.Marshal(userMsg)
	if err != nil {
		return fmt.Errorf("marshal user message: %w", err)
	}
	assistantBlob, err := json.Marshal(assistantMsg)
	if err != nil {
		return fmt.Errorf("marshal assistant message: %w", err)
	}

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, stateKey).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("redis get state failed: %w", err)
		}
		if err != redis.Nil {
			var current stateEnvelope
			if err := json.Unmarshal([]byte(data), &current); err != nil {
				return fmt.Errorf("unmarshal state envelope: %w", err)
			}
			if current.Version != doc.Version {
				return ErrVersionConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, stateKey, envelope, 0)
			pipe.RPush(ctx, messagesKey, userBlob, assistantBlob)
			return nil
		})
		return err
	}

	for i := 0; i < commitRetries; i++ {
		err := r.client.Watch(ctx, txn, stateKey)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return err
		}
		doc.Version++
		return nil
	}
	return ErrVersionConflict
}

func (r *RedisStore) RecentMessages(ctx context.Context, worldID string, limit int) ([]chat.Message, error) {
	entries, err := r.client.LRange(ctx, messagesKeyPrefix+worldID, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange messages failed: %w", err)
	}

	messages := make([]chat.Message, 0, len(entries))
	for _, entry := range entries {
		var stored chat.StoredMessage
		if err := json.Unmarshal([]byte(entry), &stored); err != nil {
			return nil, fmt.Errorf("unmarshal stored message: %w", err)
		}
		messages = append(messages, chat.Message{Role: stored.Role, Content: stored.Content})
	}
	return messages, nil
}
