package record

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authrecord:"

const (
	fieldName            = "name"
	fieldRole            = "role"
	fieldQuestion        = "security_question"
	fieldHashedAnswer    = "hashed_answer"
	fieldValidated       = "validated"
	fieldCipherPlain     = "cipher_plain"
	fieldCipherShift     = "cipher_shift"
	fieldCipherValidated = "cipher_validated"
	fieldNotifyChannel   = "notification_channel"
)

// RedisStore keeps one hash per user. Field-level HSET writes give each
// mutation the isolated update semantics the challenge flow relies on.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed auth record store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Get fetches the full auth record for a user.
func (s *RedisStore) Get(ctx context.Context, userID string) (UserAuthRecord, error) {
	fields, err := s.client.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return UserAuthRecord{}, fmt.Errorf("get auth record: %w", err)
	}
	if len(fields) == 0 {
		return UserAuthRecord{}, ErrNotFound
	}

	rec := UserAuthRecord{
		UserID:              userID,
		Name:                fields[fieldName],
		Role:                Role(fields[fieldRole]),
		SecurityQuestion:    fields[fieldQuestion],
		HashedAnswer:        fields[fieldHashedAnswer],
		Validated:           fields[fieldValidated] == "1",
		CipherPlain:         fields[fieldCipherPlain],
		CipherValidated:     fields[fieldCipherValidated] == "1",
		NotificationChannel: fields[fieldNotifyChannel],
	}
	if v := fields[fieldCipherShift]; v != "" {
		shift, err := strconv.Atoi(v)
		if err != nil {
			return UserAuthRecord{}, fmt.Errorf("decode cipher shift: %w", err)
		}
		rec.CipherShift = shift
	}
	return rec, nil
}

// Put writes the full record, replacing any existing hash.
func (s *RedisStore) Put(ctx context.Context, rec UserAuthRecord) error {
	values := map[string]any{
		fieldName:            rec.Name,
		fieldRole:            string(rec.Role),
		fieldQuestion:        rec.SecurityQuestion,
		fieldHashedAnswer:    rec.HashedAnswer,
		fieldValidated:       boolField(rec.Validated),
		fieldCipherPlain:     rec.CipherPlain,
		fieldCipherShift:     strconv.Itoa(rec.CipherShift),
		fieldCipherValidated: boolField(rec.CipherValidated),
		fieldNotifyChannel:   rec.NotificationChannel,
	}
	if err := s.client.HSet(ctx, key(rec.UserID), values).Err(); err != nil {
		return fmt.Errorf("put auth record: %w", err)
	}
	return nil
}

// SetValidated flips the security-question flag.
func (s *RedisStore) SetValidated(ctx context.Context, userID string, v bool) error {
	return s.setFields(ctx, userID, map[string]any{fieldValidated: boolField(v)})
}

// SetCipherValidated flips the cipher flag.
func (s *RedisStore) SetCipherValidated(ctx context.Context, userID string, v bool) error {
	return s.setFields(ctx, userID, map[string]any{fieldCipherValidated: boolField(v)})
}

// SetCipherPuzzle overwrites the outstanding cipher puzzle. The new plaintext
// becomes the sole ground truth; any previously issued puzzle is dead.
func (s *RedisStore) SetCipherPuzzle(ctx context.Context, userID, plain string, shift int) error {
	return s.setFields(ctx, userID, map[string]any{
		fieldCipherPlain: plain,
		fieldCipherShift: strconv.Itoa(shift),
	})
}

// ResetValidation clears both challenge flags, forcing a full re-challenge
// on the next login.
func (s *RedisStore) ResetValidation(ctx context.Context, userID string) error {
	return s.setFields(ctx, userID, map[string]any{
		fieldValidated:       boolField(false),
		fieldCipherValidated: boolField(false),
	})
}

// SetNotificationChannel stores the user's provisioned channel handle.
func (s *RedisStore) SetNotificationChannel(ctx context.Context, userID, channel string) error {
	return s.setFields(ctx, userID, map[string]any{fieldNotifyChannel: channel})
}

func (s *RedisStore) setFields(ctx context.Context, userID string, values map[string]any) error {
	k := key(userID)
	exists, err := s.client.Exists(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("check auth record: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	if err := s.client.HSet(ctx, k, values).Err(); err != nil {
		return fmt.Errorf("update auth record: %w", err)
	}
	return nil
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
