package redisStore

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	logger *logger_i.Logger
}

// NewRedisStore connects to one logical database and fails when the server does not answer a ping.
func NewRedisStore(ctx context.Context, addr string, password string, dbType int) (*Store, error) {
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	logger := logger_i.NewLogger(fmt.Sprintf("Redis Store %d", dbType))

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		_ = newClient.Close()
		logger.Error("Redis is offline", "addr", addr, "error", err)
		return nil, fmt.Errorf("redis %s db %d: %w", addr, dbType, err)
	}

	logger.Info("Redis store init successfully", "db", dbType)
	return &Store{client: newClient, logger: logger}, nil
}

// NewTestStore wraps an existing client, tests point it at miniredis.
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client, logger: logger_i.NewLogger("Redis Store test")}
}

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		s.logger.Error("Error closing redis client", "error", err)
		return err
	}
	return nil
}
