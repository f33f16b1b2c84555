package acctlock

import (
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Provide(cfg config.Config, log *zap.Logger) *Locker {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Warn("redis addr not configured, per-account locks fall back to version checks")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	return NewLocker(client)
}

var Module = fx.Module("acctlock",
	fx.Provide(Provide),
)
