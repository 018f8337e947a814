package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.Nil(t, New("", "", 0))

	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))

	var dst map[string]string
	c.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute)
	assert.False(t, c.GetJSON(ctx, "k", &dst))
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisBehavesAsMiss(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.Get(ctx, "menu:all")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Set(ctx, "menu:all", []byte("[]"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "menu:all"))
}
