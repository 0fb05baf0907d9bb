// Package offlinepack loads the curated offline answer pack and serves
// lexical matches and suggestion chips from it without any network dependency.
package offlinepack

import (
	"encoding/json"
	"os"
	"sync"
)

// Answer is the structured payload attached to a pack entry.
type Answer struct {
	Direct   string   `json:"direct"`
	Steps    []string `json:"steps"`
	Mistakes []string `json:"mistakes"`
}

// Entry is one curated question/answer item in the pack.
type Entry struct {
	ID               string   `json:"id"`
	Lang             string   `json:"lang"`
	QuestionVariants []string `json:"question_variants"`
	Tags             []string `json:"tags"`
	SourceIDs        []string `json:"source_ids"`
	Answer           Answer   `json:"answer"`
}

// packFile accepts both a bare entry array and a wrapped {"entries": [...]}
// document so pack artifacts from either exporter load identically.
type packFile struct {
	Entries []Entry `json:"entries"`
}

// Load reads a pack artifact from disk. A missing file is not an error:
// the engine degrades to an empty pack and keeps serving.
func Load(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var wrapped packFile
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Entries, nil
}

// Cache holds a loaded pack in memory and supports explicit reloads.
// All reads see either the previous snapshot or the new one, never a mix.
type Cache struct {
	path string

	mu      sync.RWMutex
	entries []Entry
	loaded  bool
}

// NewCache builds a cache over the pack file at path. The file is read
// lazily on first use.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Entries returns the current pack snapshot, loading it on first call.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	if c.loaded {
		entries := c.entries
		c.mu.RUnlock()
		return entries
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		entries, err := Load(c.path)
		if err != nil {
			entries = nil
		}
		c.entries = entries
		c.loaded = true
	}
	return c.entries
}

// Reload re-reads the pack file and swaps the snapshot. On read failure
// the previous snapshot is kept.
func (c *Cache) Reload() error {
	entries, err := Load(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries = entries
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// ByLang returns the entries for one language code.
func (c *Cache) ByLang(lang string) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Lang == lang {
			out = append(out, e)
		}
	}
	return out
}
