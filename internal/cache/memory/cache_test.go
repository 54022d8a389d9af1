package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prn-tf/zettel-notes/internal/repository"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("expected value, got %s", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := NewCache()
	defer c.Stop()

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, repository.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); !errors.Is(err, repository.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); err != nil {
		t.Errorf("expected no expiry for zero ttl, got %v", err)
	}
}

func TestCache_Delete(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Get(ctx, "key"); !errors.Is(err, repository.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}

	// Deleting a missing key is a no-op.
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCache_ValueIsolation(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	original := []byte("value")
	if err := c.Set(ctx, "key", original, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	original[0] = 'X'

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("cached value was mutated through the caller's slice: %s", got)
	}

	got[0] = 'Y'
	again, _ := c.Get(ctx, "key")
	if string(again) != "value" {
		t.Errorf("cached value was mutated through a returned slice: %s", again)
	}
}
