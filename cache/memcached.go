package cache

import (
	"bskyposts/feed"
	"context"
	"encoding/json"
	"errors"
	"github.com/bradfitz/gomemcache/memcache"
	log "github.com/sirupsen/logrus"
	"time"
)

// MemcachedProfilesCache is the Memcached alternative to ProfilesCache.
type MemcachedProfilesCache struct {
	client     *memcache.Client
	expiration int32
}

func NewMemcachedProfilesCache(servers []string, expiration time.Duration) *MemcachedProfilesCache {
	return &MemcachedProfilesCache{
		client:     memcache.New(servers...),
		expiration: int32(expiration.Seconds()),
	}
}

func (c *MemcachedProfilesCache) AddProfile(_ context.Context, handle string, profile feed.Profile) {
	bytes, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("Error marshalling profile: %s", err)
		return
	}
	err = c.client.Set(&memcache.Item{
		Key:        memcachedKey(handle),
		Value:      bytes,
		Expiration: c.expiration,
	})
	if err != nil {
		log.Warnf("Error caching profile '%s': %s", handle, err)
	}
}

func (c *MemcachedProfilesCache) GetProfile(_ context.Context, handle string) (feed.Profile, bool) {
	item, err := c.client.Get(memcachedKey(handle))
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			log.Warnf("Error reading cached profile '%s': %s", handle, err)
		}
		return feed.Profile{}, false
	}

	var profile feed.Profile
	if err := json.Unmarshal(item.Value, &profile); err != nil {
		log.Errorf("Error unmarshalling profile: %s", err)
		return feed.Profile{}, false
	}
	return profile, true
}

func memcachedKey(handle string) string {
	return "profile__" + handle
}
