package app

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

var ErrNoRedis = errors.New("no redis configured, the in-process cache empties on restart")

// FlushSuggestionCache drops every cached suggestion list from Redis.
func FlushSuggestionCache(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if !cfg.UsesRedis() {
		return ErrNoRedis
	}
	client, err := connectRedis(ctx, cfg, log)
	if err != nil {
		return err
	}
	store := redisstore.NewStore(client)
	defer utils.MustClose(store, "redis", log)

	if err := store.FlushSuggestions(ctx); err != nil {
		return err
	}
	log.Info("suggestion cache flushed")
	return nil
}
