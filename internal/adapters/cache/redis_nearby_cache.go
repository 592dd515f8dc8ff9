package cache

import (
	"address-book-service/internal/domain"
	"address-book-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "addressbook:"

// cachedAddress is the JSON shape of one cached proximity result.
type cachedAddress struct {
	ID         int64     `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      *string   `json:"state,omitempty"`
	Country    string    `json:"country"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	DistanceKm float64   `json:"distance_km"`
}

// RedisNearbyCache stores proximity results in Redis under a generation
// counter. Invalidate bumps the counter, which orphans every older entry;
// orphans expire through their TTL.
type RedisNearbyCache struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRedisNearbyCache(client *redis.Client, ttl time.Duration) *RedisNearbyCache {
	return &RedisNearbyCache{Client: client, TTL: ttl, Prefix: defaultKeyPrefix}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}
	return client, nil
}

func (c *RedisNearbyCache) Generation(ctx context.Context) (int64, error) {
	if c.Client == nil {
		return 0, errors.New("nearby cache: client is nil")
	}

	gen, err := c.Client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("nearby cache: read generation: %w", err)
	}
	return gen, nil
}

func (c *RedisNearbyCache) Get(
	ctx context.Context,
	gen int64,
	q domain.NearbyQuery,
) (_ []domain.NearbyAddress, _ bool, err error) {
	defer obs.Time(ctx, "nearby.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("nearby cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, c.entryKey(gen, q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get nearby cache: %w", err)
	}

	var entries []cachedAddress
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("get nearby cache: decode entry: %w", err)
	}

	out := make([]domain.NearbyAddress, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.NearbyAddress{
			Address: domain.Address{
				ID:         e.ID,
				Street:     e.Street,
				City:       e.City,
				State:      e.State,
				Country:    e.Country,
				PostalCode: e.PostalCode,
				Location:   domain.Coordinates{Lat: e.Lat, Lon: e.Lon},
				CreatedAt:  e.CreatedAt,
				UpdatedAt:  e.UpdatedAt,
			},
			DistanceKm: e.DistanceKm,
		})
	}
	return out, true, nil
}

func (c *RedisNearbyCache) Put(
	ctx context.Context,
	gen int64,
	q domain.NearbyQuery,
	results []domain.NearbyAddress,
) error {
	if c.Client == nil {
		return errors.New("nearby cache: client is nil")
	}

	entries := make([]cachedAddress, 0, len(results))
	for _, r := range results {
		a := r.Address
		entries = append(entries, cachedAddress{
			ID:         a.ID,
			Street:     a.Street,
			City:       a.City,
			State:      a.State,
			Country:    a.Country,
			PostalCode: a.PostalCode,
			Lat:        a.Location.Lat,
			Lon:        a.Location.Lon,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
			DistanceKm: r.DistanceKm,
		})
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("put nearby cache: encode entry: %w", err)
	}

	if err := c.Client.Set(ctx, c.entryKey(gen, q), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put nearby cache: %w", err)
	}
	return nil
}

func (c *RedisNearbyCache) Invalidate(ctx context.Context) error {
	if c.Client == nil {
		return errors.New("nearby cache: client is nil")
	}

	if err := c.Client.Incr(ctx, c.genKey()).Err(); err != nil {
		return fmt.Errorf("invalidate nearby cache: %w", err)
	}
	return nil
}

func (c *RedisNearbyCache) genKey() string {
	return c.Prefix + "nearby:gen"
}

// entryKey uses the shortest exact float representation so distinct queries
// never share a key.
func (c *RedisNearbyCache) entryKey(gen int64, q domain.NearbyQuery) string {
	return c.Prefix + "nearby:" + strconv.FormatInt(gen, 10) + ":" +
		strconv.FormatFloat(q.Reference.Lat, 'g', -1, 64) + ":" +
		strconv.FormatFloat(q.Reference.Lon, 'g', -1, 64) + ":" +
		strconv.FormatFloat(q.RadiusKm, 'g', -1, 64)
}
