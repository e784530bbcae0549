package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func testKey(page int) Key {
	return Key{Endpoint: "https://api.example.com/artworks", Page: page, Limit: 10}
}

func TestManager_SetAndGet(t *testing.T) {
	m := NewManager(setupTestRedis(t))
	ctx := context.Background()

	entry := &PageEntry{
		Data:     []byte(`{"data":[{"id":1}]}`),
		CachedAt: time.Now(),
		Expires:  time.Now().Add(5 * time.Minute),
	}

	if err := m.Set(ctx, testKey(1), entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := m.Get(ctx, testKey(1))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data mismatch: got %s, want %s", got.Data, entry.Data)
	}
}

func TestManager_GetMiss(t *testing.T) {
	m := NewManager(setupTestRedis(t))

	_, err := m.Get(context.Background(), testKey(99))
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_ExpiredEntryIsAMiss(t *testing.T) {
	m := NewManager(setupTestRedis(t))
	ctx := context.Background()

	// Write the entry directly so the Set TTL guard doesn't drop it.
	expired := &PageEntry{
		Data:     []byte(`{}`),
		CachedAt: time.Now().Add(-10 * time.Minute),
		Expires:  time.Now().Add(50 * time.Millisecond),
	}
	if err := m.Set(ctx, testKey(2), expired); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := m.Get(ctx, testKey(2)); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss for expired entry, got %v", err)
	}
}

func TestManager_SetSkipsExpiredEntry(t *testing.T) {
	m := NewManager(setupTestRedis(t))
	ctx := context.Background()

	entry := &PageEntry{
		Data:    []byte(`{}`),
		Expires: time.Now().Add(-1 * time.Minute),
	}
	if err := m.Set(ctx, testKey(3), entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := m.Get(ctx, testKey(3)); err != ErrCacheMiss {
		t.Errorf("Already-expired entries must not be cached, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(setupTestRedis(t))
	ctx := context.Background()

	entry := &PageEntry{
		Data:    []byte(`{}`),
		Expires: time.Now().Add(5 * time.Minute),
	}
	if err := m.Set(ctx, testKey(4), entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := m.Delete(ctx, testKey(4)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := m.Get(ctx, testKey(4)); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestNewManager_NilRedisPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for nil redis client")
		}
	}()
	NewManager(nil)
}
