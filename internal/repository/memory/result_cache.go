package memory

import (
	"time"

	"cv-adapter-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// ResultCache keeps the most recent generation per user in process memory
// so the "latest result" endpoint doesn't hit Postgres on every poll.
type ResultCache struct {
	cache *cache.Cache
}

func NewResultCache() *ResultCache {
	// Default expiration 1 hour, purge expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ResultCache{
		cache: c,
	}
}

func (r *ResultCache) Save(userId string, generation *entity.Generation) {
	r.cache.Set(userId, generation, cache.DefaultExpiration)
}

func (r *ResultCache) Get(userId string) (*entity.Generation, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*entity.Generation), true
	}
	return nil, false
}

func (r *ResultCache) Delete(userId string) {
	r.cache.Delete(userId)
}
