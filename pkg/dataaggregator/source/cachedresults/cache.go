package cachedresults

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/dataaggregator/source"
)

const DefaultExpiration = 10 * time.Minute

// Source answers repeated multimodal searches from Redis and asks Next on a miss.
// Partial results are never cached.
type Source struct {
	Next       dataaggregator.DataSource
	Expiration time.Duration

	cache *cache.Cache[string]
}

func (s *Source) Setup(client *redis.Client) {
	if s.Expiration <= 0 {
		s.Expiration = DefaultExpiration
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(s.Expiration))

	s.cache = cache.New[string](redisStore)
}

func (s *Source) GetName() string {
	return "Cached Results"
}

func (s *Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.MultimodalSearchResults{}),
	}
}

func (s *Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	search, ok := q.(query.MultimodalSearch)
	if !ok {
		return nil, source.UnsupportedSourceError
	}

	key := search.CacheKey()

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var results ctdf.MultimodalSearchResults
		if err := json.Unmarshal([]byte(cached), &results); err == nil {
			log.Debug().Str("key", key).Msg("Multimodal search served from cache")
			return &results, nil
		}

		log.Warn().Str("key", key).Msg("Discarding unreadable cached search")
	}

	value, err := s.Next.Lookup(ctx, q)
	if err != nil {
		return value, err
	}

	results, ok := value.(*ctdf.MultimodalSearchResults)
	if !ok || results == nil || results.Partial() {
		return value, nil
	}

	encoded, err := json.Marshal(results)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to encode search for cache")
		return results, nil
	}
	if err := s.cache.Set(ctx, key, string(encoded), store.WithExpiration(s.Expiration)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to cache search")
	}

	return results, nil
}
