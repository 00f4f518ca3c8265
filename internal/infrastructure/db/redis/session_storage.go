package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

const defaultSessionTTL = 12 * time.Hour

// Hash fields of a session key.
const (
	fieldUser      = "user"
	fieldApartment = "apartment"
	fieldChecklist = "checklist"
	fieldToken     = "token"
)

// SessionStorage persists sessions as one Redis hash per session.
// Key format: session:<id>. Writes run in MULTI/EXEC so readers never see a
// partially written session.
type SessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStorage wraps a client. Keys expire ttl after the last write.
func NewSessionStorage(client *redis.Client, ttl time.Duration) *SessionStorage {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStorage{client: client, ttl: ttl}
}

// Load reads every field of the session. A missing key yields an empty session.
func (s *SessionStorage) Load(ctx context.Context, sessionID string) (domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	var out domain.Session
	if err := decodeField(fields, fieldUser, &out.User); err != nil {
		return domain.Session{}, err
	}
	if err := decodeField(fields, fieldApartment, &out.Apartment); err != nil {
		return domain.Session{}, err
	}
	if err := decodeField(fields, fieldChecklist, &out.Checklist); err != nil {
		return domain.Session{}, err
	}
	out.AuthToken = fields[fieldToken]
	return out, nil
}

// Save replaces the whole session in one transaction.
func (s *SessionStorage) Save(ctx context.Context, sessionID string, sess domain.Session) error {
	values := map[string]any{fieldToken: sess.AuthToken}
	for field, v := range map[string]any{
		fieldUser:      sess.User,
		fieldApartment: sess.Apartment,
		fieldChecklist: sess.Checklist,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", field, err)
		}
		values[field] = string(raw)
	}

	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SaveChecklist rewrites the checklist field and refreshes the expiry.
func (s *SessionStorage) SaveChecklist(ctx context.Context, sessionID string, c *domain.Checklist) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}

	key := s.key(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldChecklist, string(raw))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save checklist: %w", err)
	}
	return nil
}

// Delete removes the session key.
func (s *SessionStorage) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) key(sessionID string) string {
	return "session:" + sessionID
}

func decodeField[T any](fields map[string]string, name string, dst *T) error {
	raw, ok := fields[name]
	if !ok || raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode session %s: %w", name, err)
	}
	return nil
}
