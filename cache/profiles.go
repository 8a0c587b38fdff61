package cache

import (
	"bskyposts/feed"
	"context"
	"encoding/json"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"time"
)

const ProfilesCacheRedisKey = "profiles"

// ProfilesCache maps handles to profiles in a Redis hash. Each field expires
// on its own so stale handle->DID mappings age out.
type ProfilesCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewProfilesCache(options *redis.Options, expiration time.Duration) *ProfilesCache {
	return &ProfilesCache{
		redisClient: redis.NewClient(options),
		expiration:  expiration,
	}
}

func (c *ProfilesCache) AddProfile(ctx context.Context, handle string, profile feed.Profile) {
	bytes, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("Error marshalling profile: %s", err)
		return
	}
	if err := c.redisClient.HSet(ctx, ProfilesCacheRedisKey, handle, bytes).Err(); err != nil {
		log.Warnf("Error caching profile '%s': %s", handle, err)
		return
	}
	// HEXPIRE needs Redis 7.4
	if err := c.redisClient.HExpire(ctx, ProfilesCacheRedisKey, c.expiration, handle).Err(); err != nil {
		log.Warnf("Error setting expiration of cached profile '%s': %s", handle, err)
	}
}

func (c *ProfilesCache) GetProfile(ctx context.Context, handle string) (feed.Profile, bool) {
	val, err := c.redisClient.HGet(ctx, ProfilesCacheRedisKey, handle).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("Error reading cached profile '%s': %s", handle, err)
		}
		return feed.Profile{}, false
	}

	var profile feed.Profile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		log.Errorf("Error unmarshalling profile: %s", err)
		return feed.Profile{}, false
	}
	return profile, true
}

func (c *ProfilesCache) Close() error {
	return c.redisClient.Close()
}
