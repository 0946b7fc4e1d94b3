package assignment

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// reserveScript increments the counter only while it is below the capacity
// argument. The check and increment run atomically inside Redis, which gives
// the linearizable reservation order the guard contract requires.
var reserveScript = redis.NewScript(`
local load = tonumber(redis.call('GET', KEYS[1]) or '0')
if load >= tonumber(ARGV[1]) then
  return -1
end
return redis.call('INCR', KEYS[1])
`)

// releaseScript decrements with a floor of zero so a duplicate compensation
// cannot drive the counter negative.
var releaseScript = redis.NewScript(`
local load = tonumber(redis.call('GET', KEYS[1]) or '0')
if load <= 0 then
  return 0
end
return redis.call('DECR', KEYS[1])
`)

type redisGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisGuard builds a guard backed by Redis counters, shared across
// service instances.
func NewRedisGuard(client *redis.Client, keyPrefix string) Guard {
	return &redisGuard{client: client, keyPrefix: keyPrefix}
}

func (g *redisGuard) key(operatorID string) string {
	return g.keyPrefix + operatorID
}

func (g *redisGuard) TryReserve(ctx context.Context, operatorID string, maxLoad int) (bool, error) {
	res, err := reserveScript.Run(ctx, g.client, []string{g.key(operatorID)}, maxLoad).Int64()
	if err != nil {
		return false, err
	}
	return res >= 0, nil
}

func (g *redisGuard) Release(ctx context.Context, operatorID string) error {
	return releaseScript.Run(ctx, g.client, []string{g.key(operatorID)}).Err()
}

func (g *redisGuard) Load(ctx context.Context, operatorID string) (int, error) {
	val, err := g.client.Get(ctx, g.key(operatorID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (g *redisGuard) Loads(ctx context.Context, operatorIDs []string) (map[string]int, error) {
	if len(operatorIDs) == 0 {
		return map[string]int{}, nil
	}
	keys := make([]string, len(operatorIDs))
	for i, id := range operatorIDs {
		keys[i] = g.key(id)
	}
	vals, err := g.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string]int, len(operatorIDs))
	for i, id := range operatorIDs {
		load := 0
		if raw, ok := vals[i].(string); ok {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, err
			}
			load = parsed
		}
		result[id] = load
	}
	return result, nil
}

func (g *redisGuard) Seed(ctx context.Context, loads map[string]int) error {
	// drop every existing counter first so a stale one, such as a
	// reservation whose appeal write never landed, cannot survive the
	// reconciliation
	iter := g.client.Scan(ctx, 0, g.keyPrefix+"*", 100).Iterator()
	var stale []string
	for iter.Next(ctx) {
		stale = append(stale, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	pipe := g.client.Pipeline()
	if len(stale) > 0 {
		pipe.Del(ctx, stale...)
	}
	for id, load := range loads {
		pipe.Set(ctx, g.key(id), load, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}
