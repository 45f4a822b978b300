package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorageSetGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStorage(mr.Addr(), 0)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(KeyPrefix+"1.2.3.4", []byte("hits"), time.Minute))
	assert.True(t, mr.Exists(KeyPrefix+"1.2.3.4"))

	got, err := store.Get(KeyPrefix + "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, []byte("hits"), got)

	require.NoError(t, store.Delete(KeyPrefix+"1.2.3.4"))
	got, err = store.Get(KeyPrefix + "1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorageExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStorage(mr.Addr(), 0)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	store, err := NewRedisStorage(addr, 0)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClientKey(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(ClientKey(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, KeyPrefix+"0.0.0.0", string(buf[:n]))
}
