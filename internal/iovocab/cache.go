package iovocab

import (
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
	"github.com/gnames/occdl/pkg/vocab"
)

// entry is what the cache keeps for one set of service URLs.
type entry struct {
	FetchedAt  time.Time
	Vocabulary vocab.Vocabulary
}

// cacheManager keeps vocabularies in a Badger v4 key-value store at
// ~/.cache/occdl/vocab/.
type cacheManager struct {
	dir string
	db  *badger.DB
}

func newCacheManager(dir string) (*cacheManager, error) {
	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create cache directory", "error", err, "dir", dir)
		return nil, CacheError("create", err)
	}
	return &cacheManager{dir: dir}, nil
}

func (c *cacheManager) open() error {
	if c.db != nil {
		slog.Warn("Cache database is already open")
		return nil
	}

	options := badger.DefaultOptions(c.dir)
	options.Logger = nil // Disable badger's internal logging

	db, err := badger.Open(options)
	if err != nil {
		slog.Error("Cannot open cache database", "error", err, "dir", c.dir)
		return CacheError("open", err)
	}

	c.db = db
	slog.Debug("Cache database opened", "dir", c.dir)
	return nil
}

func (c *cacheManager) close() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil
	if err != nil {
		slog.Error("Cannot close cache database", "error", err)
		return CacheError("close", err)
	}
	return nil
}

// get returns a cached entry, or nil if the key is not found.
func (c *cacheManager) get(key string) (*entry, error) {
	if c.db == nil {
		return nil, CacheNotOpenError()
	}

	var valBytes []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		valBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, CacheError("read", err)
	}
	if valBytes == nil {
		return nil, nil
	}

	enc := gnfmt.GNgob{}
	var res entry
	if err = enc.Decode(valBytes, &res); err != nil {
		return nil, CacheError("decode", err)
	}
	return &res, nil
}

func (c *cacheManager) store(key string, e *entry) error {
	if c.db == nil {
		return CacheNotOpenError()
	}

	enc := gnfmt.GNgob{}
	valBytes, err := enc.Encode(e)
	if err != nil {
		return CacheError("encode", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), valBytes)
	})
	if err != nil {
		return CacheError("write", err)
	}
	return nil
}

// clear removes all cached vocabularies.
func (c *cacheManager) clear() error {
	if err := c.close(); err != nil {
		return err
	}
	if err := gnsys.CleanDir(c.dir); err != nil {
		slog.Error("Cannot clean cache directory", "error", err, "dir", c.dir)
		return CacheError("clear", err)
	}
	slog.Info("Vocabulary cache cleared", "dir", c.dir)
	return nil
}
