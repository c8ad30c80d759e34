package client

import (
	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Cache is the client's durable key/value scope — the localStorage
// analog. One entry per collection holding its JSON-serialized array,
// plus the current-user record and the durable admin flag. A read that
// fails is a miss, never an error; corrupt values are handled by the
// reconciler's read path.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// BadgerCache backs the Cache with Badger, in-memory when dir is empty.
type BadgerCache struct {
	db  *badger.DB
	log zerolog.Logger
}

func OpenCache(dir string, log zerolog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerCache{db: db, log: log}, nil
}

func (c *BadgerCache) Get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *BadgerCache) Set(key string, value []byte) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *BadgerCache) Delete(key string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

func (c *BadgerCache) Close() error { return c.db.Close() }
