package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestSetGetDelete(t *testing.T) {
	useMiniredis(t)

	require.NoError(t, Set("plan:1", "monthly", time.Minute))
	val, err := Get("plan:1")
	require.NoError(t, err)
	assert.Equal(t, "monthly", val)

	require.NoError(t, Delete("plan:1"))
	_, err = Get("plan:1")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	mr := useMiniredis(t)

	type entry struct {
		Name   string `json:"name"`
		Period int    `json:"period"`
	}
	require.NoError(t, SetJSON("plans", []entry{{Name: "Starter", Period: 30}}, time.Minute))

	var got []entry
	require.NoError(t, GetJSON("plans", &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Starter", got[0].Name)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, GetJSON("plans", &got), redis.Nil)
}
