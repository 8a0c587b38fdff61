package main

import (
	"bskyposts/bluesky"
	"bskyposts/cache"
	"bskyposts/config"
	"bskyposts/feed"
	"bskyposts/render"
	"bskyposts/server"
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"strings"
)

func newProfileCache(cfg *config.Config) feed.ProfileCache {
	switch {
	case cfg.Cache.RedisHost != "":
		redisOptions := redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Cache.RedisHost, cfg.Cache.RedisPort),
			Password: "", // no password set
			DB:       0,  // use default DB
		}
		return cache.NewProfilesCache(&redisOptions, cfg.CacheTTL())
	case cfg.Cache.MemcachedURL != "":
		return cache.NewMemcachedProfilesCache(strings.Split(cfg.Cache.MemcachedURL, ","), cfg.CacheTTL())
	default:
		return nil
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return &config.ConfigError{Variable: "LOG_LEVEL", Reason: "unknown level", Err: err}
	}
	log.SetLevel(level)

	ctx := context.Background()
	session, err := bluesky.Login(ctx, cfg.Bluesky.Username, cfg.Bluesky.Password, bluesky.Options{
		Service:   cfg.Bluesky.Service,
		PDSLookup: cfg.Bluesky.PDSLookup,
		Timeout:   cfg.Timeout(),
		FeedLimit: cfg.Bluesky.FeedLimit,
	})
	if err != nil {
		return err
	}

	profiles := newProfileCache(cfg)
	if closer, ok := profiles.(io.Closer); ok {
		defer closer.Close()
	}
	fetcher := feed.NewFetcher(session, profiles)
	handle := cfg.TargetHandle()
	log.Debugf("Fetching posts of '%s' as '%s'", handle, session.Handle())

	switch cfg.Output.Format {
	case config.FormatServe:
		return server.NewServer(fetcher, handle, cfg.Server.Port).Run()
	case config.FormatRaw:
		entries, err := fetcher.FetchFeed(ctx, handle)
		if err != nil {
			return err
		}
		return render.Raw(os.Stdout, entries)
	}

	posts, err := fetcher.FetchOriginalPosts(ctx, handle)
	if err != nil {
		return err
	}
	switch cfg.Output.Format {
	case config.FormatJson:
		return render.JSON(os.Stdout, posts)
	case config.FormatConsole:
		return render.Console(os.Stdout, posts)
	default:
		return render.HTML(os.Stdout, posts)
	}
}

func main() {
	if err := run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
