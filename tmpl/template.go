package tmpl

import (
	"container/list"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the number of template checks [Parse] remembers.
const DefaultCacheSize = 1024

// globalCache stores the outcome of checking a template, keyed by a hash of
// its source and the options affecting the check.
var globalCache = newCache(DefaultCacheSize)

// state tracks the check of one source.
type state struct {
	key  uint64
	once sync.Once
	err  error // never holds template text
}

// cache is a fixed-size set of check outcomes, evicting the least recently
// used entry when full.
type cache struct {
	mu      sync.Mutex
	entries map[uint64]*list.Element
	lru     *list.List
	size    int
}

func newCache(size int) *cache {
	return &cache{
		entries: make(map[uint64]*list.Element),
		lru:     list.New(),
		size:    size,
	}
}

// load returns the entry for key, adding an empty one if absent.
func (c *cache) load(key uint64) (entry *state, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.lru.MoveToFront(e)

		return e.Value.(*state), true
	}

	entry = &state{key: key}
	if c.size <= 0 {
		return entry, false
	}

	if c.lru.Len() >= c.size {
		oldest := c.lru.Back()
		delete(c.entries, oldest.Value.(*state).key)
		c.lru.Remove(oldest)
	}

	c.entries[key] = c.lru.PushFront(entry)

	return entry, false
}

// count returns the number of cached entries.
func (c *cache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.lru.Init()
}

// Template is a template whose directive structure has been fully checked.
// Rendering a Template can still fail with [ErrMissingVariable] or
// [ErrWrite], but not with [ErrParse].
type Template struct {
	renderer *Renderer
	source   string
	key      uint64
}

// cacheKey combines the source hash with the maximum depth.
func cacheKey(source string, maxDepth int) uint64 {
	var opts [8]byte

	binary.LittleEndian.PutUint64(opts[:], uint64(maxDepth))

	return xxh3.HashString(source) ^ xxh3.Hash(opts[:])
}

// Parse checks every directive of src, including those nested in block
// bodies, and returns a Template ready to execute. The outcome of the last
// [DefaultCacheSize] distinct checks is cached, so parsing the same source
// again is cheap.
func Parse(ctx context.Context, src string, opts ...Option) (*Template, error) {
	r := NewRenderer(opts...)
	key := cacheKey(src, r.maxDepth)

	entry, hit := globalCache.load(key)

	r.logger.TraceContext(ctx, "template cache",
		slog.Bool("hit", hit),
		slog.Uint64("key", key),
	)

	entry.once.Do(func() {
		entry.err = withSource(check(newScanner(src, 0, src, 0, r.maxDepth)), "")
	})

	if entry.err != nil {
		return nil, withSource(entry.err, src)
	}

	return &Template{renderer: r, source: src, key: key}, nil
}

// ParseReader reads the template from rd and parses it with [Parse].
func ParseReader(ctx context.Context, rd io.Reader, opts ...Option) (*Template, error) {
	// Wrap reader with async read-ahead so reads overlap with buffering.
	ra := readahead.NewReader(rd)
	defer ra.Close()

	var buf strings.Builder
	if _, err := io.Copy(&buf, ra); err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, buf.String(), opts...)
}

// check scans s and every block body beneath it, visiting each body once.
func check(s *scanner) error {
	for d, err := range s.all {
		if err != nil {
			return err
		}

		switch d.Kind {
		case DirectiveIf, DirectiveFor:
			if err := check(s.child(d.Body, d.BodyOffset)); err != nil {
				return err
			}

		case DirectiveText, DirectiveVariable:
		}
	}

	return nil
}

// withSource returns err with the template text of a [*ParseError] replaced
// by src. Other errors are returned unchanged.
func withSource(err error, src string) error {
	pe, ok := err.(*ParseError)
	if !ok {
		return err
	}

	return newParseError(pe.Kind, pe.Offset, src)
}

// ClearCache discards all cached template checks.
func ClearCache() { globalCache.clear() }

// Source returns the template text.
func (t *Template) Source() string { return t.source }

// Key returns the cache key of the template.
func (t *Template) Key() uint64 { return t.key }

// Execute renders the template against c, writing output to w.
func (t *Template) Execute(ctx context.Context, w io.Writer, c Context) error {
	return t.renderer.RenderTo(ctx, w, c, t.source)
}

// Render renders the template against c and returns the output.
func (t *Template) Render(ctx context.Context, c Context) (string, error) {
	return t.renderer.Render(ctx, c, t.source)
}
