// Package lang loads the localized string tables consumed by the picker
// dialog and negotiates the best locale for a request.
package lang

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// Table is a flat mapping from message key to localized display text.
type Table map[string]string

// Get returns the text for a key, or "" when the key is missing. Missing
// keys render as empty strings in the emitted script, matching the host
// platform's behavior.
func (t Table) Get(key string) string {
	return t[key]
}

// Catalog holds the string tables for every available locale.
type Catalog struct {
	dir    string
	def    language.Tag
	logger *slog.Logger

	mu      sync.RWMutex
	tables  map[language.Tag]Table
	matcher language.Matcher
	tags    []language.Tag
}

// Load reads every *.yaml file in dir as a locale table. File names are BCP 47
// tags ("en.yaml", "pt-BR.yaml"). defaultLocale is used when negotiation
// finds no match; it must be one of the loaded locales.
func Load(dir, defaultLocale string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}

	c := &Catalog{dir: dir, def: def, logger: logger}
	if err := c.reload(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	_, ok := c.tables[def]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("default locale %q has no string table in %s", defaultLocale, dir)
	}

	return c, nil
}

func (c *Catalog) reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read lang dir: %w", err)
	}

	tables := make(map[language.Tag]Table)
	var tags []language.Tag

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		tag, err := language.Parse(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			c.logger.Warn("skipping lang file with invalid locale name", "file", name, "error", err)
			continue
		}

		k := koanf.New(".")
		if err := k.Load(file.Provider(filepath.Join(c.dir, name)), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}

		table := make(Table)
		for key, value := range k.All() {
			table[key] = fmt.Sprint(value)
		}
		tables[tag] = table
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return fmt.Errorf("no string tables found in %s", c.dir)
	}

	// The default locale leads so the matcher falls back to it.
	ordered := make([]language.Tag, 0, len(tags))
	ordered = append(ordered, c.def)
	for _, tag := range tags {
		if tag != c.def {
			ordered = append(ordered, tag)
		}
	}

	c.mu.Lock()
	c.tables = tables
	c.tags = ordered
	c.matcher = language.NewMatcher(ordered)
	c.mu.Unlock()

	c.logger.Debug("string tables loaded", "dir", c.dir, "locales", len(tables))
	return nil
}

// Pick negotiates the best locale for an Accept-Language header value and
// returns its table. An empty or unparseable header yields the default table.
func (c *Catalog) Pick(acceptLanguage string) Table {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tag := c.def
	if acceptLanguage != "" {
		if preferred, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			_, idx, _ := c.matcher.Match(preferred...)
			tag = c.tags[idx]
		}
	}

	if table, ok := c.tables[tag]; ok {
		return table
	}
	return c.tables[c.def]
}

// Watch reloads the catalog whenever a lang file changes, until the context
// is cancelled. Reload failures keep the previous tables.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return fmt.Errorf("failed to watch lang dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}
			if err := c.reload(); err != nil {
				c.logger.Warn("lang reload failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("lang watcher error", "error", err)
		}
	}
}
