// Package msgcat holds reply templates: embedded defaults plus optional YAML overrides.
package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	yaml "gopkg.in/yaml.v3"
)

//go:embed replies.zh.yaml
var defaultFiles embed.FS

// Catalog maps flattened dot-keys to pools of templates. A scalar leaf is a pool of one.
type Catalog struct {
	mu    sync.RWMutex
	pools map[string][]*template.Template
}

// New loads the embedded replies and then applies overrides from dir if provided.
// An override replaces a whole pool, never single entries.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{pools: make(map[string][]*template.Template)}

	raw, err := fs.ReadFile(defaultFiles, "replies.zh.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded replies: %w", err)
	}
	if err := c.apply(raw); err != nil {
		return nil, fmt.Errorf("parse embedded replies: %w", err)
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustDefault is New("") for tests and tools; it panics on a broken embedded file.
func MustDefault() *Catalog {
	c, err := New("")
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read replies dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string) // key -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range flat {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[k] = name
		}
		if err := c.store(flat); err != nil {
			return fmt.Errorf("compile %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) apply(b []byte) error {
	flat, err := parseYAMLToFlat(b)
	if err != nil {
		return err
	}
	return c.store(flat)
}

func (c *Catalog) store(flat map[string][]string) error {
	compiled := make(map[string][]*template.Template, len(flat))
	for key, texts := range flat {
		pool := make([]*template.Template, 0, len(texts))
		for i, text := range texts {
			t, err := template.New(fmt.Sprintf("%s[%d]", key, i)).Option("missingkey=error").Parse(text)
			if err != nil {
				return err
			}
			pool = append(pool, t)
		}
		compiled[key] = pool
	}
	c.mu.Lock()
	for k, v := range compiled {
		c.pools[k] = v
	}
	c.mu.Unlock()
	return nil
}

func parseYAMLToFlat(b []byte) (map[string][]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string][]string)
	if err := flatten(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flatten(src any, prefix string, out map[string][]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flatten(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if prefix == "" {
			return errors.New("list value without key prefix")
		}
		pool := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("unsupported value at %s[%d]: %T", prefix, i, item)
			}
			pool = append(pool, s)
		}
		if len(pool) == 0 {
			return fmt.Errorf("empty pool at %s", prefix)
		}
		out[prefix] = pool
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = []string{v}
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Len is the size of the pool under key, 0 if absent.
func (c *Catalog) Len(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pools[strings.TrimSpace(key)])
}

// Render executes the first template of key.
func (c *Catalog) Render(key string, data any) (string, error) {
	return c.RenderAt(key, 0, data)
}

// RenderAt executes entry i of the pool under key. Missing keys and fields are errors;
// callers provide their own fallback text.
func (c *Catalog) RenderAt(key string, i int, data any) (string, error) {
	c.mu.RLock()
	pool := c.pools[strings.TrimSpace(key)]
	c.mu.RUnlock()
	if len(pool) == 0 {
		return "", fmt.Errorf("template not found: %s", key)
	}
	if i < 0 || i >= len(pool) {
		return "", fmt.Errorf("template %s: index %d out of range [0,%d)", key, i, len(pool))
	}
	var b strings.Builder
	if err := pool[i].Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
