package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freshcart/storefront/internal/core/domain"
)

const (
	checkoutKeyTTL = 24 * time.Hour
	// pendingMarker holds a key while its checkout is running.
	pendingMarker = "pending"
	// reserveAttempts covers a pending key expiring between SETNX and GET.
	reserveAttempts = 2
)

// CheckoutIdempotency maps a client supplied Idempotency-Key to the order it
// produced, so a retried checkout returns the existing order.
// Key format: checkout:<user_id>:<idempotency_key>
type CheckoutIdempotency struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutIdempotency creates a CheckoutIdempotency wrapping the given Redis client.
func NewCheckoutIdempotency(client *redis.Client) *CheckoutIdempotency {
	return &CheckoutIdempotency{client: client, ttl: checkoutKeyTTL}
}

// Reserve sets the key to the pending marker when it is free. A key that
// already holds an order id is reported as found; one still pending yields
// domain.ErrCheckoutInProgress.
func (c *CheckoutIdempotency) Reserve(ctx context.Context, userID, key string) (string, bool, error) {
	k := c.key(userID, key)
	for i := 0; i < reserveAttempts; i++ {
		ok, err := c.client.SetNX(ctx, k, pendingMarker, c.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return "", false, nil
		}

		val, err := c.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency lookup: %w", err)
		}
		if val == pendingMarker {
			return "", false, domain.ErrCheckoutInProgress
		}
		return val, true, nil
	}
	return "", false, domain.ErrCheckoutInProgress
}

// Complete replaces the pending marker with orderID.
func (c *CheckoutIdempotency) Complete(ctx context.Context, userID, key, orderID string) error {
	if err := c.client.Set(ctx, c.key(userID, key), orderID, c.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release deletes the reservation.
func (c *CheckoutIdempotency) Release(ctx context.Context, userID, key string) error {
	if err := c.client.Del(ctx, c.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (c *CheckoutIdempotency) key(userID, key string) string {
	return fmt.Sprintf("checkout:%s:%s", userID, key)
}
