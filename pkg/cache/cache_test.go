package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "selenium:latest", []byte("2.53.1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "selenium:latest")
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v; want hit", hit, err)
	}
	if string(data) != "2.53.1" {
		t.Errorf("Get() data = %q, want %q", data, "2.53.1")
	}
}

func TestFileCache_ConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	const writers = 50
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errCh <- c.Set(ctx, "selenium:latest", []byte(fmt.Sprintf("2.53.%d", i)), time.Hour)
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Errorf("Set: %v", err)
		}
	}

	data, hit, err := c.Get(ctx, "selenium:latest")
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v; want hit", hit, err)
	}
	if !strings.HasPrefix(string(data), "2.53.") {
		t.Errorf("Get() data = %q, want one of the written values", data)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear() removed %d entries, want 1 (temp files left behind?)", n)
	}
}

func TestFileCache_Miss(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	_, hit, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("Get() returned hit for missing key")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("Get() returned hit for expired key")
	}
	if _, statErr := os.Stat(c.path("key")); !os.IsNotExist(statErr) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCache_NoExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "key", []byte("v"), 0)
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("ttl 0 entry should not expire")
	}
}

func TestFileCache_Corrupt(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "key", []byte("v"), time.Hour)
	if err := os.WriteFile(c.path("key"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil || hit {
		t.Errorf("Get() = %v, %v; want miss, nil", hit, err)
	}
}

func TestFileCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), time.Hour)
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted key still present")
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d entries, want 2", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear: %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKey(t *testing.T) {
	k := Key("selenium:latest", "https://selenium-release.storage.googleapis.com")
	if !strings.HasPrefix(k, "selenium:latest:") {
		t.Errorf("Key() = %q, want namespace prefix", k)
	}
	if k == Key("selenium:latest", "http://127.0.0.1") {
		t.Error("different ids should produce different keys")
	}
}

// TestRedisCache runs against a real server when SELENIUMDL_TEST_REDIS
// names one, e.g. "localhost:6379".
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SELENIUMDL_TEST_REDIS")
	if addr == "" {
		t.Skip("SELENIUMDL_TEST_REDIS not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, "seleniumdl-test:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("2.53.1"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "2.53.1" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted key still present")
	}
}

// memRedis answers GET, SET and DEL in memory without dialing a server.
type memRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]bool
	fail error
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string][]byte{}, ttls: map[string]bool{}}
}

func (m *memRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.fail != nil {
			return m.fail
		}

		args := cmd.Args()
		switch strings.ToLower(cmd.Name()) {
		case "get":
			v, ok := m.data[fmt.Sprint(args[1])]
			if !ok {
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(string(v))
		case "set":
			key := fmt.Sprint(args[1])
			switch v := args[2].(type) {
			case []byte:
				m.data[key] = v
			default:
				m.data[key] = []byte(fmt.Sprint(v))
			}
			m.ttls[key] = len(args) > 3
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "del":
			var n int64
			for _, a := range args[1:] {
				if _, ok := m.data[fmt.Sprint(a)]; ok {
					delete(m.data, fmt.Sprint(a))
					n++
				}
			}
			cmd.(*redis.IntCmd).SetVal(n)
		default:
			return fmt.Errorf("memRedis: unsupported command %q", cmd.Name())
		}
		return nil
	}
}

func newMemRedisCache(t *testing.T) (*RedisCache, *memRedis) {
	t.Helper()
	mem := newMemRedis()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(mem)
	c := NewRedisCacheFromClient(client, "seleniumdl:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mem
}

func TestRedisCache_FromClient(t *testing.T) {
	ctx := context.Background()
	c, mem := newMemRedisCache(t)

	if _, hit, err := c.Get(ctx, "selenium:latest"); err != nil || hit {
		t.Fatalf("Get() on empty = %v, %v; want miss, nil", hit, err)
	}

	if err := c.Set(ctx, "selenium:latest", []byte("2.53.1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := mem.data["seleniumdl:selenium:latest"]; !ok {
		t.Errorf("key not stored under prefix: %v", mem.data)
	}
	if !mem.ttls["seleniumdl:selenium:latest"] {
		t.Error("Set with ttl should pass an expiry to redis")
	}

	data, hit, err := c.Get(ctx, "selenium:latest")
	if err != nil || !hit || string(data) != "2.53.1" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if mem.ttls["seleniumdl:forever"] {
		t.Error("Set with zero ttl should not pass an expiry")
	}

	if err := c.Delete(ctx, "selenium:latest"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "selenium:latest"); hit {
		t.Error("deleted key still present")
	}
}

func TestRedisCache_ErrorIsNotMiss(t *testing.T) {
	ctx := context.Background()
	c, mem := newMemRedisCache(t)
	mem.fail = errors.New("connection reset")

	_, hit, err := c.Get(ctx, "selenium:latest")
	if err == nil {
		t.Fatal("Get() should report backend errors")
	}
	if hit {
		t.Error("Get() reported a hit on error")
	}
	if err := c.Set(ctx, "selenium:latest", []byte("2.53.1"), time.Hour); err == nil {
		t.Error("Set() should report backend errors")
	}
}
