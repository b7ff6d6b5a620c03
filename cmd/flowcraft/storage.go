package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/flowcraft/internal/config"
	"github.com/aretw0/flowcraft/pkg/adapters/file"
	"github.com/aretw0/flowcraft/pkg/adapters/memory"
	"github.com/aretw0/flowcraft/pkg/adapters/redis"
	"github.com/aretw0/flowcraft/pkg/ports"
)

// openDocumentStore builds the configured store. The returned function releases it.
func openDocumentStore(ctx context.Context, c config.Config) (ports.DocumentStore, func() error, error) {
	noop := func() error { return nil }

	switch c.Storage.Driver {
	case config.DriverMemory:
		return memory.NewStore(), noop, nil
	case config.DriverFile:
		return file.New(c.Storage.Dir), noop, nil
	case config.DriverRedis:
		var opts []redis.Option
		if c.Storage.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(c.Storage.Redis.Prefix))
		}
		if c.Storage.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(c.Storage.Redis.TTL))
		}
		store := redis.New(c.Storage.Redis.Addr, c.Storage.Redis.Password, c.Storage.Redis.DB, opts...)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis at %s: %w", c.Storage.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
}
