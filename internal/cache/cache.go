package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"zh-extractor/internal/textutil"
)

// Store persists generated key names. Keys are "folder:text".
type Store interface {
	Load(ctx context.Context) (map[string]string, error)
	Put(ctx context.Context, key, name string) error
	// Flush makes buffered writes durable.
	Flush(ctx context.Context) error
}

// TranslationCache provides in-memory + store-backed caching of generated
// key names.
type TranslationCache struct {
	store  Store
	mu     sync.RWMutex
	memory map[string]string // hash → name
}

// NewTranslationCache creates a new cache backed by store.
func NewTranslationCache(store Store) *TranslationCache {
	return &TranslationCache{
		store:  store,
		memory: make(map[string]string),
	}
}

// Key builds the cache key for text found in folder.
func Key(folder, text string) string {
	return folder + ":" + text
}

// Get retrieves a cached name. Returns empty string and false if not found.
func (c *TranslationCache) Get(key string) (string, bool) {
	hash := textutil.Hash(key)

	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.memory[hash]
	return v, ok
}

// Set stores a name in memory and in the backing store.
func (c *TranslationCache) Set(ctx context.Context, key, name string) error {
	hash := textutil.Hash(key)

	c.mu.Lock()
	c.memory[hash] = name
	c.mu.Unlock()

	if err := c.store.Put(ctx, key, name); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Len returns the number of cached names.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Preload loads all stored names into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	entries, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, name := range entries {
		c.memory[textutil.Hash(key)] = name
	}

	log.Info().Int("count", len(entries)).Msg("Preloaded translation cache")
	return nil
}

// Save flushes the backing store.
func (c *TranslationCache) Save(ctx context.Context) error {
	if err := c.store.Flush(ctx); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	return nil
}
