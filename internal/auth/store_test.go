package auth

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

type fakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	c.now = c.now.Add(d)
	c.mutex.Unlock()
}

func newStores(t *testing.T, clock *fakeClock) map[string]console.TokenStore {
	t.Helper()

	memory := NewMemoryTokenStore()
	memory.now = clock.Now

	file := NewFileTokenStore(filepath.Join(t.TempDir(), "session", "credentials.yml"))
	file.now = clock.Now

	return map[string]console.TokenStore{
		"memory": memory,
		"file":   file,
	}
}

func TestTokenStores(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}

	for name, store := range newStores(t, clock) {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store returns empty token", func(t *testing.T) {
				token, err := store.Get()
				require.NoError(t, err)
				assert.Empty(t, token)
			})

			t.Run("set then get", func(t *testing.T) {
				require.NoError(t, store.Set("tok-1", time.Hour))

				token, err := store.Get()
				require.NoError(t, err)
				assert.Equal(t, "tok-1", token)
			})

			t.Run("set replaces token", func(t *testing.T) {
				require.NoError(t, store.Set("tok-2", time.Hour))

				token, err := store.Get()
				require.NoError(t, err)
				assert.Equal(t, "tok-2", token)
			})

			t.Run("rejects empty token", func(t *testing.T) {
				require.ErrorIs(t, store.Set("", time.Hour), constants.ErrEmptyToken)
			})

			t.Run("clear is idempotent", func(t *testing.T) {
				require.NoError(t, store.Clear())
				require.NoError(t, store.Clear())

				token, err := store.Get()
				require.NoError(t, err)
				assert.Empty(t, token)
			})
		})
	}
}

func TestTokenStores_Expiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	stores := newStores(t, clock)

	for _, store := range stores {
		require.NoError(t, store.Set("short", time.Minute))
	}

	clock.Advance(59 * time.Second)

	for name, store := range stores {
		token, err := store.Get()
		require.NoError(t, err, name)
		assert.Equal(t, "short", token, name)
	}

	clock.Advance(time.Second)

	for name, store := range stores {
		token, err := store.Get()
		require.NoError(t, err, name)
		assert.Empty(t, token, "%s: token read at its expiry should be empty", name)
	}
}

func TestTokenStores_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	stores := newStores(t, clock)

	for name, store := range stores {
		require.NoError(t, store.Set("forever", 0), name)
	}

	clock.Advance(365 * 24 * time.Hour)

	for name, store := range stores {
		token, err := store.Get()
		require.NoError(t, err, name)
		assert.Equal(t, "forever", token, name)
	}
}

func TestFileTokenStore(t *testing.T) {
	t.Parallel()

	t.Run("writes owner-only file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "credentials.yml")
		store := NewFileTokenStore(path)

		require.NoError(t, store.Set("secret", time.Hour))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())
	})

	t.Run("shares session between instances", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "credentials.yml")
		first := NewFileTokenStore(path)
		second := NewFileTokenStore(path)

		require.NoError(t, first.Set("shared", time.Hour))

		token, err := second.Get()
		require.NoError(t, err)
		assert.Equal(t, "shared", token)

		require.NoError(t, second.Clear())

		token, err = first.Get()
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("current returns expired token", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
		store := NewFileTokenStore(filepath.Join(t.TempDir(), "credentials.yml"))
		store.now = clock.Now

		require.NoError(t, store.Set("stale", time.Minute))
		clock.Advance(time.Hour)

		token, ok, err := store.Current()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "stale", token.AccessToken)
		assert.True(t, token.ExpiresAt.Equal(clock.Now().Add(-59*time.Minute)))
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "credentials.yml")
		require.NoError(t, os.WriteFile(path, []byte("access_token: [unterminated"), constants.ConfigFilePerm))

		_, err := NewFileTokenStore(path).Get()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing credentials file")
	})
}

func TestMemoryTokenStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewMemoryTokenStore()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(3)

		go func() {
			defer wg.Done()

			_ = store.Set("tok", time.Hour)
		}()

		go func() {
			defer wg.Done()

			_, _ = store.Get()
		}()

		go func() {
			defer wg.Done()

			_ = store.Clear()
		}()
	}

	wg.Wait()
}
