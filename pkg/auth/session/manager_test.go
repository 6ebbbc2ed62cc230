package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func TestManagerCreateResolveDestroy(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}

	ctx := context.Background()
	sessionID, err := manager.Create(ctx, 42)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := store.SessionKey(sessionID)
	if stored := store.data[key]; stored != "42" {
		t.Fatalf("expected stored user id 42, got %q", stored)
	}
	if store.ttls[key] != time.Hour {
		t.Fatalf("expected ttl applied, got %s", store.ttls[key])
	}

	userID, err := manager.Resolve(ctx, sessionID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}

	if err := manager.Destroy(ctx, sessionID); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := manager.Resolve(ctx, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found after destroy, got %v", err)
	}
	if err := manager.Destroy(ctx, sessionID); err != nil {
		t.Fatalf("second destroy should be a no-op: %v", err)
	}
}

func TestManagerResolveRejectsUnknownAndCorrupt(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	if _, err := manager.Resolve(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found for blank id, got %v", err)
	}
	if _, err := manager.Resolve(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	store.data[store.SessionKey("bad")] = "not-a-number"
	if _, err := manager.Resolve(ctx, "bad"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected corrupt record to be treated as missing, got %v", err)
	}
}

func TestManagerCreateRequiresUser(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	if _, err := manager.Create(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero user id")
	}
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	manager, err := NewManager(redisclient.NewInMemory(), config.SessionConfig{TTL: time.Hour})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	ctx := context.Background()

	first, err := manager.Create(ctx, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := manager.Create(ctx, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct session ids")
	}

	if err := manager.Destroy(ctx, first); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := manager.Resolve(ctx, second); err != nil {
		t.Fatalf("expected second session to survive, got %v", err)
	}
}

func TestNewManagerValidatesInput(t *testing.T) {
	if _, err := NewManager(nil, config.SessionConfig{TTL: time.Hour}); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewManager(redisclient.NewInMemory(), config.SessionConfig{}); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
