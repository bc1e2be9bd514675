package cache

import (
	"context"
	"fmt"
	"testing"
)

// Nil-кэш — штатный режим работы без Redis: все операции становятся no-op.
func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache

	var dest string
	if c.GetJSON("some-key", &dest) {
		t.Error("nil cache GetJSON must report a miss")
	}
	c.SetJSON("some-key", "value", TTLProduct)
	c.Delete("some-key")

	if err := c.Ping(context.Background()); err == nil {
		t.Error("nil cache Ping must return an error")
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil cache Close: %v", err)
	}
}

func TestProductKeyFormat(t *testing.T) {
	key := fmt.Sprintf(KeyProduct, "p-1")
	if key != "catalog:product:p-1" {
		t.Errorf("key = %s", key)
	}
}
