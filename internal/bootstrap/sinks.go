// Package bootstrap connects the optional event backends named in the config.
package bootstrap

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/pkg/database"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sinks holds every event backend that was configured. Unset backends stay
// nil.
type Sinks struct {
	Outbox *event.OutboxSink
	Redis  *event.RedisSink
	Search *event.SearchSink
	NATS   *event.NATSSink

	// RedisClient is shared with the creation rate limiter.
	RedisClient *redis.Client

	closers []func() error
}

// ConnectSinks opens the backends whose URL is set. The search sink reads
// current records through reader.
func ConnectSinks(ctx context.Context, cfg *config.Config, reader event.GraphReader, log *zap.Logger) (*Sinks, error) {
	s := &Sinks{}

	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
		if err != nil {
			return nil, s.fail(err)
		}
		if sqlDB, err := db.DB(); err == nil {
			s.closers = append(s.closers, sqlDB.Close)
		}
		if s.Outbox, err = event.NewOutboxSink(db); err != nil {
			return nil, s.fail(err)
		}
		log.Info("event outbox enabled")
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, s.fail(err)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			return nil, s.fail(err)
		}
		s.closers = append(s.closers, client.Close)
		s.RedisClient = client
		s.Redis = event.NewRedisSink(client)
		log.Info("redis event fan-out enabled")
	}

	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		s.Search = event.NewSearchSink(client, reader, log)
		log.Info("search indexing enabled", zap.String("host", host))
	}

	if cfg.NATSURL != "" {
		sink, err := event.NewNATSSink(cfg.NATSURL)
		if err != nil {
			return nil, s.fail(err)
		}
		s.closers = append(s.closers, sink.Close)
		s.NATS = sink
		log.Info("nats event bus enabled")
	}

	return s, nil
}

// List returns the configured sinks in delivery order.
func (s *Sinks) List() []event.Sink {
	var sinks []event.Sink
	if s.Outbox != nil {
		sinks = append(sinks, s.Outbox)
	}
	if s.Redis != nil {
		sinks = append(sinks, s.Redis)
	}
	if s.Search != nil {
		sinks = append(sinks, s.Search)
	}
	if s.NATS != nil {
		sinks = append(sinks, s.NATS)
	}
	return sinks
}

func (s *Sinks) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func (s *Sinks) fail(err error) error {
	return errors.Join(err, s.Close())
}
