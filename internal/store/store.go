package store

import (
	"fmt"

	"crypto-calc/internal/logger"
)

// Store is a key→string blob store. The calculator persists every piece of
// session state through this port: saved inputs, mode preference, the
// comparison ledger, and the sort preference.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Open returns the durable SQLite store at path, falling back to an
// in-process store when SQLite is unavailable. The returned store never
// surfaces persistence failures to callers: writes that fail on the durable
// tier land on the ephemeral tier instead.
func Open(path string) Store {
	durable, err := OpenSQLite(path)
	if err != nil {
		logger.Warn("Store", fmt.Sprintf("SQLite unavailable (%v), using in-memory store", err))
		return NewMemory()
	}
	logger.Success("Store", fmt.Sprintf("Opened %s", path))
	return WithFallback(durable)
}

// fallback wraps a durable tier with an ephemeral tier that absorbs failed
// writes, so state written during an outage is still readable within the
// session.
type fallback struct {
	durable   Store
	ephemeral *Memory
}

// WithFallback layers an in-process tier over a durable store.
func WithFallback(durable Store) Store {
	return &fallback{durable: durable, ephemeral: NewMemory()}
}

func (f *fallback) Get(key string) (string, bool) {
	// A shadow copy only exists while the latest durable write for the key
	// has failed, so it is always newer than the durable value.
	if v, ok := f.ephemeral.Get(key); ok {
		return v, true
	}
	return f.durable.Get(key)
}

func (f *fallback) Set(key, value string) error {
	if err := f.durable.Set(key, value); err != nil {
		logger.Warn("Store", fmt.Sprintf("durable write for %q failed (%v), keeping in memory", key, err))
		return f.ephemeral.Set(key, value)
	}
	// Durable write succeeded; drop any stale shadow copy.
	f.ephemeral.Delete(key)
	return nil
}

func (f *fallback) Delete(key string) error {
	f.ephemeral.Delete(key)
	return f.durable.Delete(key)
}

// Close releases the durable tier, if it holds resources.
func (f *fallback) Close() error {
	if c, ok := f.durable.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
