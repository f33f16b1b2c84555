package acctlock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker hands out exclusive per-account mutation locks backed by redis.
// A nil Locker is valid and means single-instance mode: locking degrades
// to the optimistic version checks on the override record.
type Locker struct {
	client *redis.Client
	script *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

// TryLock claims the account key for ttl. It does not block or retry; a
// held lock returns ok=false and the caller surfaces a conflict.
func (l *Locker) TryLock(ctx context.Context, accountNumber string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", true, nil
	}
	if accountNumber == "" {
		return "", false, errors.New("lock account is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(accountNumber), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release frees the account lock only when token still owns it.
func (l *Locker) Release(ctx context.Context, accountNumber, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if accountNumber == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{lockKey(accountNumber)}, token).Err()
}

func lockKey(accountNumber string) string {
	return "acctlock:" + accountNumber
}
