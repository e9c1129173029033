package historystore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/dora-register/modules/grid/domain/history"
)

const keyPrefix = "dora_grid"

// RedisStore keeps each stack in a Redis list, newest at the head, so
// history survives restarts and is shared between replicas.
type RedisStore struct {
	client *redis.Client
	depth  int
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, depth int, ttl time.Duration) *RedisStore {
	if depth <= 0 {
		depth = history.DefaultDepth
	}
	return &RedisStore{client: client, depth: depth, ttl: ttl}
}

// NewRedisStoreFromURL connects and pings before returning.
func NewRedisStoreFromURL(url string, depth int, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return NewRedisStore(client, depth, ttl), nil
}

func listKey(key string, s history.Stack) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s, key)
}

func (r *RedisStore) pushCmds(ctx context.Context, pipe redis.Pipeliner, key string, s history.Stack, data []byte) {
	k := listKey(key, s)
	pipe.LPush(ctx, k, data)
	pipe.LTrim(ctx, k, 0, int64(r.depth-1))
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
}

func (r *RedisStore) Record(ctx context.Context, key string, e history.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encode history entry")
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.pushCmds(ctx, pipe, key, history.StackUndo, data)
		pipe.Del(ctx, listKey(key, history.StackRedo))
		return nil
	})
	return errors.Wrapf(err, "record edit for %s", key)
}

func (r *RedisStore) Push(ctx context.Context, key string, s history.Stack, e history.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encode history entry")
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.pushCmds(ctx, pipe, key, s, data)
		return nil
	})
	return errors.Wrapf(err, "push %s entry for %s", s, key)
}

func (r *RedisStore) Pop(ctx context.Context, key string, s history.Stack) (history.Entry, bool, error) {
	data, err := r.client.LPop(ctx, listKey(key, s)).Bytes()
	if errors.Is(err, redis.Nil) {
		return history.Entry{}, false, nil
	}
	if err != nil {
		return history.Entry{}, false, errors.Wrapf(err, "pop %s entry for %s", s, key)
	}
	var e history.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return history.Entry{}, false, errors.Wrap(err, "decode history entry")
	}
	return e, true, nil
}

func (r *RedisStore) List(ctx context.Context, key string, s history.Stack) ([]history.Entry, error) {
	items, err := r.client.LRange(ctx, listKey(key, s), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "list %s entries for %s", s, key)
	}
	out := make([]history.Entry, 0, len(items))
	for _, item := range items {
		var e history.Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, errors.Wrap(err, "decode history entry")
		}
		out = append(out, e)
	}
	return out, nil
}
