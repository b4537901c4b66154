package builder

import (
	"fmt"

	"go.uber.org/zap"

	"intervaltrack/internal/clip"
	"intervaltrack/internal/pool"
)

// Cursor tracks the next clip to play within one category's pool. The
// caller owns cursor lifetime, which is what decides whether consecutive
// segments of the same category continue the loop or restart it.
type Cursor struct {
	index int
}

// Index returns the cursor's current position in the pool.
func (c *Cursor) Index() int {
	return c.index
}

// SegmentBuilder produces exact-duration segments from a category's pool
// by concatenating clips in order, wrapping to the start when the pool is
// exhausted, and truncating the final contributing clip to fit.
type SegmentBuilder struct {
	logger *zap.Logger
}

// NewSegmentBuilder creates a SegmentBuilder with a no-op logger.
func NewSegmentBuilder() *SegmentBuilder {
	return NewSegmentBuilderWithLogger(nil)
}

// NewSegmentBuilderWithLogger creates a SegmentBuilder with the given logger.
func NewSegmentBuilderWithLogger(logger *zap.Logger) *SegmentBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SegmentBuilder{logger: logger}
}

// Build returns a new clip of exactly targetFrames frames drawn from the
// pool starting at the cursor. Clips that fit whole are appended whole and
// advance the cursor (wrapping past the last index); the clip that would
// overshoot is cut to the remaining frame count and does not advance the
// cursor. A non-positive target yields an empty segment.
//
// The pool must contain at least one frame of audio; the library's
// missing-category check runs before Build is ever reached, so an empty
// pool here means a caller bug rather than a configuration error.
func (b *SegmentBuilder) Build(targetFrames int, p *pool.Pool, cur *Cursor) (*clip.Clip, error) {
	if targetFrames <= 0 {
		return clip.Empty(), nil
	}
	if p == nil || p.Len() == 0 || p.TotalFrames() == 0 {
		return nil, fmt.Errorf("segment builder requires a pool with audio content")
	}
	if cur.index >= p.Len() {
		cur.index = 0
	}

	var pieces []*clip.Clip
	accumulated := 0
	looped := false
	for accumulated < targetFrames {
		c := p.Clip(cur.index)
		remaining := targetFrames - accumulated
		if c.Frames() <= remaining {
			pieces = append(pieces, c)
			accumulated += c.Frames()
			cur.index++
			if cur.index == p.Len() {
				cur.index = 0
				looped = true
			}
			continue
		}
		pieces = append(pieces, c.Prefix(remaining))
		accumulated = targetFrames
	}

	if looped {
		b.logger.Debug("looped source pool to fill segment",
			zap.String("category", p.Category()),
			zap.Int("target_frames", targetFrames),
			zap.Int("pool_frames", p.TotalFrames()))
	}

	return clip.Concat(pieces...), nil
}
