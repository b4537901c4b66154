package pool

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"intervaltrack/internal/clip"
)

// MissingCategoryError reports an interval referencing a category with no
// registered source clips. It is fatal: assembly aborts before any output
// is produced.
type MissingCategoryError struct {
	Category string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("no source clips registered for category %q", e.Category)
}

// Pool holds the ordered source clips for one category. Order is
// significant: looping replays clips in exactly this order every cycle.
type Pool struct {
	category string
	clips    []*clip.Clip
}

// NewPool creates a pool for a category with the given clips in order.
func NewPool(category string, clips []*clip.Clip) *Pool {
	owned := make([]*clip.Clip, len(clips))
	copy(owned, clips)
	return &Pool{category: category, clips: owned}
}

// Category returns the pool's category label.
func (p *Pool) Category() string {
	return p.category
}

// Len returns the number of clips in the pool.
func (p *Pool) Len() int {
	return len(p.clips)
}

// Clip returns the clip at index i.
func (p *Pool) Clip(i int) *clip.Clip {
	return p.clips[i]
}

// TotalFrames returns the combined frame count of every clip in the pool.
func (p *Pool) TotalFrames() int {
	total := 0
	for _, c := range p.clips {
		total += c.Frames()
	}
	return total
}

// Library groups pools by category label and is the only lookup surface
// the assembler touches. Read-only once assembly begins.
type Library struct {
	pools  map[string]*Pool
	logger *zap.Logger
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return NewLibraryWithLogger(nil)
}

// NewLibraryWithLogger creates an empty Library with the given logger.
func NewLibraryWithLogger(logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{pools: make(map[string]*Pool), logger: logger}
}

// Add appends a clip to the category's pool, creating the pool on first
// use. Clips keep the order they were added in.
func (l *Library) Add(category string, c *clip.Clip) {
	p, ok := l.pools[category]
	if !ok {
		p = &Pool{category: category}
		l.pools[category] = p
	}
	p.clips = append(p.clips, c)
	l.logger.Debug("registered source clip",
		zap.String("category", category),
		zap.Duration("duration", c.Duration()),
		zap.Int("pool_size", len(p.clips)))
}

// Get returns the pool for a category. A category that was never
// registered, or registered with zero clips, yields a MissingCategoryError.
func (l *Library) Get(category string) (*Pool, error) {
	p, ok := l.pools[category]
	if !ok || len(p.clips) == 0 {
		return nil, &MissingCategoryError{Category: category}
	}
	return p, nil
}

// Has reports whether the category has at least one clip registered.
func (l *Library) Has(category string) bool {
	p, ok := l.pools[category]
	return ok && len(p.clips) > 0
}

// Categories returns the registered category labels in sorted order.
func (l *Library) Categories() []string {
	names := make([]string, 0, len(l.pools))
	for name := range l.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
