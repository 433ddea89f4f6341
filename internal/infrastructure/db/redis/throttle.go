package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignupThrottle bounds confirmation-code sends per email address using a
// fixed INCR/EXPIRE window. Key format: signup:<lowercased email>
type SignupThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewSignupThrottle creates a throttle allowing limit sends per window.
func NewSignupThrottle(client *redis.Client, limit int, window time.Duration) *SignupThrottle {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &SignupThrottle{client: client, limit: int64(limit), window: window}
}

// Allow reports whether another code may be sent to email within the
// current window.
func (t *SignupThrottle) Allow(ctx context.Context, email string) (bool, error) {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("signup throttle: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("signup throttle: %w", err)
		}
	}
	return n <= t.limit, nil
}

func (t *SignupThrottle) key(email string) string {
	return "signup:" + strings.ToLower(email)
}
