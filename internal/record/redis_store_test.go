package record

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := UserAuthRecord{
		UserID:           "a@x.com",
		Name:             "Alice",
		Role:             RoleFranchiseOperator,
		SecurityQuestion: "pet name",
		HashedAnswer:     "digest",
	}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != rec {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, rec)
	}
	if got.Validated || got.CipherValidated {
		t.Fatal("flags must default to false")
	}
}

func TestRedisStoreNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.SetValidated(ctx, "missing@x.com", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on field update, got %v", err)
	}
}

func TestRedisStoreFieldUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, UserAuthRecord{UserID: "a@x.com", Role: RoleCustomer}); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.SetValidated(ctx, "a@x.com", true); err != nil {
		t.Fatalf("set validated: %v", err)
	}
	if err := store.SetCipherPuzzle(ctx, "a@x.com", "abcde", 3); err != nil {
		t.Fatalf("set puzzle: %v", err)
	}
	if err := store.SetNotificationChannel(ctx, "a@x.com", "notify:user:a@x.com"); err != nil {
		t.Fatalf("set channel: %v", err)
	}

	rec, err := store.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Validated || rec.CipherValidated {
		t.Fatalf("unexpected flags: %+v", rec)
	}
	if rec.CipherPlain != "abcde" || rec.CipherShift != 3 {
		t.Fatalf("unexpected puzzle: %+v", rec)
	}
	if rec.NotificationChannel != "notify:user:a@x.com" {
		t.Fatalf("unexpected channel: %q", rec.NotificationChannel)
	}

	if err := store.SetCipherValidated(ctx, "a@x.com", true); err != nil {
		t.Fatalf("set cipher validated: %v", err)
	}
	if err := store.ResetValidation(ctx, "a@x.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rec, _ = store.Get(ctx, "a@x.com")
	if rec.Validated || rec.CipherValidated {
		t.Fatal("reset must clear both flags")
	}
	if rec.SecurityQuestion != "" && rec.HashedAnswer == "" {
		t.Fatal("reset must not touch credentials fields")
	}
}

func TestMemoryStoreMatchesRedisBehavior(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  newTestStore(t),
	}
	ctx := context.Background()

	for name, store := range stores {
		if err := store.Put(ctx, UserAuthRecord{UserID: "b@x.com"}); err != nil {
			t.Fatalf("%s put: %v", name, err)
		}
		if err := store.SetValidated(ctx, "b@x.com", true); err != nil {
			t.Fatalf("%s set validated: %v", name, err)
		}
		rec, err := store.Get(ctx, "b@x.com")
		if err != nil {
			t.Fatalf("%s get: %v", name, err)
		}
		if !rec.Validated {
			t.Fatalf("%s: validated flag not persisted", name)
		}
		if err := store.SetValidated(ctx, "nobody@x.com", true); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}
