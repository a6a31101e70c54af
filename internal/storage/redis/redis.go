// Package redis stores entries and check items in Redis as JSON values,
// with sets indexing all entries, bookmarked entries, and check items.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/go-redis/redis/v8"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, so several journals can share a server.
	Prefix string
}

// Store implements storage.Storage on Redis.
type Store struct {
	client *redis.Client
	prefix string
}

var _ storage.Storage = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, storage.Fail("connecting to redis at "+opts.Addr, err)
	}
	logger.Debug("connected to redis", "addr", opts.Addr, "db", opts.DB, "prefix", opts.Prefix)
	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient wraps an existing client. The store takes ownership and
// closes it on Close.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "daybook"
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) entryKey(id string) string     { return fmt.Sprintf("%s:entry:%s", s.prefix, id) }
func (s *Store) entriesKey() string            { return s.prefix + ":entries" }
func (s *Store) bookmarkedKey() string         { return s.prefix + ":entries:bookmarked" }
func (s *Store) checkItemKey(id string) string { return fmt.Sprintf("%s:checkitem:%s", s.prefix, id) }
func (s *Store) checkItemsKey() string         { return s.prefix + ":checkitems" }

// txFail maps an optimistic-lock failure to ErrConflict.
func txFail(op string, err error) error {
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s", storage.ErrConflict, op)
	}
	return storage.Fail(op, err)
}

// Create persists a new diary entry.
func (s *Store) Create(e entry.Entry) error {
	ctx := context.Background()
	data, err := json.Marshal(e)
	if err != nil {
		return storage.Fail("encoding entry", err)
	}

	return s.createWatched(ctx, "entry "+e.ID, s.entryKey(e.ID), data, func(pipe redis.Pipeliner) {
		pipe.SAdd(ctx, s.entriesKey(), e.ID)
		if e.Bookmarked {
			pipe.SAdd(ctx, s.bookmarkedKey(), e.ID)
		}
	})
}

// createWatched writes data under key together with the index updates,
// but only if key does not exist yet. The key is watched so a concurrent
// create of the same ID fails the transaction instead of touching indexes.
func (s *Store) createWatched(ctx context.Context, what, key string, data []byte, index func(redis.Pipeliner)) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return storage.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			index(pipe)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s already exists", storage.ErrConflict, what)
	}
	if err != nil {
		return txFail("saving "+what, err)
	}
	return nil
}

// Get retrieves an entry by ID.
func (s *Store) Get(id string) (entry.Entry, error) {
	data, err := s.client.Get(context.Background(), s.entryKey(id)).Bytes()
	if err == redis.Nil {
		return entry.Entry{}, storage.ErrNotFound
	}
	if err != nil {
		return entry.Entry{}, storage.Fail("fetching entry", err)
	}
	var e entry.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return entry.Entry{}, storage.Fail("decoding entry "+id, err)
	}
	return e, nil
}

// List loads the indexed entries and evaluates q in memory. The bookmark
// set narrows the scan when the query asks only for bookmarked entries.
func (s *Store) List(q storage.Query) ([]entry.Entry, error) {
	ctx := context.Background()
	setKey := s.entriesKey()
	if q.Bookmarked {
		setKey = s.bookmarkedKey()
	}

	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, storage.Fail("listing entry ids", err)
	}
	if len(ids) == 0 {
		return []entry.Entry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.entryKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storage.Fail("fetching entries", err)
	}

	entries := make([]entry.Entry, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Deleted between SMEMBERS and MGET.
			continue
		}
		var e entry.Entry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, storage.Fail("decoding "+keys[i], err)
		}
		entries = append(entries, e)
	}
	return q.Apply(entries), nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	n, err := s.client.SCard(context.Background(), s.entriesKey()).Result()
	if err != nil {
		return 0, storage.Fail("counting entries", err)
	}
	return int(n), nil
}

// Update replaces an existing entry. The key is watched so the existence
// check and the write commit together.
func (s *Store) Update(e entry.Entry) error {
	ctx := context.Background()
	data, err := json.Marshal(e)
	if err != nil {
		return storage.Fail("encoding entry", err)
	}

	key := s.entryKey(e.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if e.Bookmarked {
				pipe.SAdd(ctx, s.bookmarkedKey(), e.ID)
			} else {
				pipe.SRem(ctx, s.bookmarkedKey(), e.ID)
			}
			return nil
		})
		return err
	}, key)
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		return txFail("updating entry", err)
	}
	return nil
}

// Delete removes an entry and its index memberships.
func (s *Store) Delete(id string) error {
	ctx := context.Background()
	key := s.entryKey(id)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, s.entriesKey(), id)
			pipe.SRem(ctx, s.bookmarkedKey(), id)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		return txFail("deleting entry", err)
	}
	return nil
}

// CreateCheckItem persists a new check item.
func (s *Store) CreateCheckItem(c entry.CheckItem) error {
	ctx := context.Background()
	data, err := json.Marshal(c)
	if err != nil {
		return storage.Fail("encoding check item", err)
	}
	return s.createWatched(ctx, "check item "+c.ID, s.checkItemKey(c.ID), data, func(pipe redis.Pipeliner) {
		pipe.SAdd(ctx, s.checkItemsKey(), c.ID)
	})
}

// GetCheckItem retrieves a check item by ID.
func (s *Store) GetCheckItem(id string) (entry.CheckItem, error) {
	data, err := s.client.Get(context.Background(), s.checkItemKey(id)).Bytes()
	if err == redis.Nil {
		return entry.CheckItem{}, storage.ErrNotFound
	}
	if err != nil {
		return entry.CheckItem{}, storage.Fail("fetching check item", err)
	}
	var c entry.CheckItem
	if err := json.Unmarshal(data, &c); err != nil {
		return entry.CheckItem{}, storage.Fail("decoding check item "+id, err)
	}
	return c, nil
}

// ListCheckItems returns every check item ordered by title.
func (s *Store) ListCheckItems() ([]entry.CheckItem, error) {
	ctx := context.Background()
	ids, err := s.client.SMembers(ctx, s.checkItemsKey()).Result()
	if err != nil {
		return nil, storage.Fail("listing check item ids", err)
	}
	items := []entry.CheckItem{}
	if len(ids) == 0 {
		return items, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.checkItemKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storage.Fail("fetching check items", err)
	}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var c entry.CheckItem
		if err := json.Unmarshal([]byte(str), &c); err != nil {
			return nil, storage.Fail("decoding "+keys[i], err)
		}
		items = append(items, c)
	}
	entry.SortCheckItems(items)
	return items, nil
}

// UpdateCheckItem replaces an existing check item.
func (s *Store) UpdateCheckItem(c entry.CheckItem) error {
	ctx := context.Background()
	data, err := json.Marshal(c)
	if err != nil {
		return storage.Fail("encoding check item", err)
	}
	ok, err := s.client.SetXX(ctx, s.checkItemKey(c.ID), data, 0).Result()
	if err != nil {
		return storage.Fail("updating check item", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCheckItem removes a check item. Entries keep their snapshot.
func (s *Store) DeleteCheckItem(id string) error {
	ctx := context.Background()
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, s.checkItemKey(id))
		pipe.SRem(ctx, s.checkItemsKey(), id)
		return nil
	})
	if err != nil {
		return storage.Fail("deleting check item", err)
	}
	if deleted.Val() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
