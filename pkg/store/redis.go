package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/arbor/pkg/errors"
)

// DefaultRedisPrefix namespaces arbor keys in a shared Redis.
const DefaultRedisPrefix = "arbor:"

// RedisStore keeps each document as a JSON string under "<prefix>doc:<id>"
// and indexes ids in the sorted set "<prefix>docs", scored by update time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a client. An empty prefix means [DefaultRedisPrefix].
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisStoreFromURL connects using a redis:// URL and pings the server.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStore(client, ""), nil
}

func (s *RedisStore) docKey(id string) string { return fmt.Sprintf("%sdoc:%s", s.prefix, id) }
func (s *RedisStore) indexKey() string        { return s.prefix + "docs" }

func (s *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.DocumentNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get document %s", id)
	}
	return unmarshal(data)
}

func (s *RedisStore) Put(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	data, err := marshal(doc)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(doc.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(doc.UpdatedAt.UnixMilli()),
			Member: doc.ID,
		})
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put document %s", doc.ID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.docKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document %s", id)
	}
	if del.Val() == 0 {
		return errors.DocumentNotFound(id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	out := []Summary{}
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // index entry without a document
		}
		doc, err := unmarshal([]byte(str))
		if err != nil {
			continue
		}
		out = append(out, doc.Summary())
	}
	sortSummaries(out)
	return out, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
