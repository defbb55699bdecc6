package store

import (
	"context"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

// Open connects the configured backend. An unreachable Redis or MongoDB falls back to the
// in-memory stores so the service still starts.
func Open(ctx context.Context, settings *config.Settings) *Stores {
	logger := logger_i.NewLogger("Record Store")

	var (
		stores *Stores
		err    error
	)
	switch settings.StoreBackend {
	case config.StoreBackendRedis:
		stores, err = NewRedisStores(ctx, settings.RedisAddr, settings.RedisPassword)
	case config.StoreBackendMongo:
		stores, err = NewMongoStores(ctx, settings.MongoURI, settings.MongoDatabase)
	default:
		return NewInMemoryStores()
	}
	if err != nil {
		logger.Warn("record store unavailable, falling back to memory", "backend", settings.StoreBackend, "error", err)
		return NewInMemoryStores()
	}
	return stores
}
