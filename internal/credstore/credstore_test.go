package credstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/logger"
)

func setupFile(t *testing.T) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "milk", "credentials.json"), logger.Discard())
}

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	store, err := NewRedis(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()}, "milk:", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func backends(t *testing.T) map[string]Store {
	r, _ := setupRedis(t)
	return map[string]Store{
		"file":  setupFile(t),
		"redis": r,
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "empty store has no token")

			user, err := store.User(ctx)
			require.NoError(t, err)
			assert.Nil(t, user)

			require.NoError(t, store.StoreAuth(ctx, "abc", json.RawMessage(`{"username":"Ali","id":7}`)))

			token, ok, err := store.Token(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc", token)

			user, err = store.User(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Ali", user.Username())
			assert.Equal(t, float64(7), user["id"])

			require.NoError(t, store.Logout(ctx))

			_, ok, err = store.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			user, err = store.User(ctx)
			require.NoError(t, err)
			assert.Nil(t, user)

			// повторный logout не ошибка
			require.NoError(t, store.Logout(ctx))
		})
	}
}

func TestStore_NilUserStoredAsEmptyObject(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.StoreAuth(ctx, "tok", nil))

			user, err := store.User(ctx)
			require.NoError(t, err)
			assert.NotNil(t, user)
			assert.Empty(t, user)
			assert.Equal(t, "", user.Username())
		})
	}
}

func TestStore_ClearTokenKeepsUser(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.StoreAuth(ctx, "tok", json.RawMessage(`{"username":"Sara"}`)))
			require.NoError(t, store.ClearToken(ctx))

			_, ok, err := store.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			user, err := store.User(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Sara", user.Username())
		})
	}
}

func TestFile_CorruptProfileReturnsNil(t *testing.T) {
	ctx := context.Background()
	store := setupFile(t)

	require.NoError(t, store.StoreAuth(ctx, "tok", json.RawMessage(`{"username":`)))

	user, err := store.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFile_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := setupFile(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json"), 0o600))

	user, err := store.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, _, err = store.Token(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, store.ClearToken(ctx))
	_, ok, err := store.Token(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_Permissions(t *testing.T) {
	store := setupFile(t)
	require.NoError(t, store.StoreAuth(context.Background(), "tok", nil))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRedis_KeysUsePrefix(t *testing.T) {
	store, mr := setupRedis(t)
	require.NoError(t, store.StoreAuth(context.Background(), "abc", json.RawMessage(`{"username":"Ali"}`)))

	got, err := mr.Get("milk:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	got, err = mr.Get("milk:user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"Ali"}`, got)

	assert.Zero(t, mr.TTL("milk:token"))
}

func TestRedis_CorruptProfileReturnsNil(t *testing.T) {
	store, mr := setupRedis(t)
	require.NoError(t, mr.Set("milk:user", "{broken"))

	user, err := store.User(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedis(context.Background(), config.RedisConnection{AddressRedis: addr}, "milk:", logger.Discard())
	assert.Error(t, err)
}
