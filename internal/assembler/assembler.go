package assembler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"intervaltrack/internal/builder"
	"intervaltrack/internal/clip"
	"intervaltrack/internal/pool"
)

// Interval is one entry of a track's timeline: play audio from Category
// for exactly Duration.
type Interval struct {
	Duration time.Duration
	Category string
}

// InvalidIntervalError reports an interval with a negative duration. Zero
// is valid and produces an empty segment; negative is a configuration
// error and aborts the whole request.
type InvalidIntervalError struct {
	Index    int
	Category string
	Duration time.Duration
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("interval %d (category %q) has negative duration %s",
		e.Index, e.Category, e.Duration)
}

// TrackAssembler turns an ordered interval list plus a clip library into
// one continuous track. It owns the per-category loop cursors, so cursor
// lifetime across intervals is decided here and nowhere else.
type TrackAssembler struct {
	builder       *builder.SegmentBuilder
	persistCursor bool
	logger        *zap.Logger
}

// NewTrackAssembler creates a TrackAssembler with the default cursor
// policy: a category's loop position carries over between intervals, so
// two consecutive "run" intervals continue the pool where the first left
// off rather than both restarting at clip zero.
func NewTrackAssembler() *TrackAssembler {
	return NewTrackAssemblerWithPolicy(true, nil)
}

// NewTrackAssemblerWithPolicy creates a TrackAssembler with an explicit
// cursor policy. persistCursor=false gives every interval a fresh cursor,
// restarting its category's pool at the first clip.
func NewTrackAssemblerWithPolicy(persistCursor bool, logger *zap.Logger) *TrackAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackAssembler{
		builder:       builder.NewSegmentBuilderWithLogger(logger),
		persistCursor: persistCursor,
		logger:        logger,
	}
}

// Assemble builds the final track: one exact-duration segment per
// interval, concatenated in interval order with no gap or overlap. All
// intervals and category lookups are validated up front, so no segment is
// built for a request that cannot complete. The returned track's frame
// count equals the sum of the intervals' frame counts exactly.
func (ta *TrackAssembler) Assemble(intervals []Interval, lib *pool.Library) (*clip.Clip, error) {
	pools := make(map[string]*pool.Pool)
	for i, iv := range intervals {
		if iv.Duration < 0 {
			return nil, &InvalidIntervalError{Index: i, Category: iv.Category, Duration: iv.Duration}
		}
		if _, ok := pools[iv.Category]; ok {
			continue
		}
		p, err := lib.Get(iv.Category)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		pools[iv.Category] = p
	}

	cursors := make(map[string]*builder.Cursor)
	segments := make([]*clip.Clip, 0, len(intervals))
	for i, iv := range intervals {
		cur := cursors[iv.Category]
		if cur == nil || !ta.persistCursor {
			cur = &builder.Cursor{}
			cursors[iv.Category] = cur
		}

		target := clip.FramesForDuration(iv.Duration)
		seg, err := ta.builder.Build(target, pools[iv.Category], cur)
		if err != nil {
			return nil, fmt.Errorf("interval %d (category %q): %w", i, iv.Category, err)
		}
		segments = append(segments, seg)

		ta.logger.Debug("built segment",
			zap.Int("interval", i),
			zap.String("category", iv.Category),
			zap.Duration("duration", iv.Duration),
			zap.Int("frames", seg.Frames()))
	}

	track := clip.Concat(segments...)
	ta.logger.Info("assembled track",
		zap.Int("intervals", len(intervals)),
		zap.Duration("duration", track.Duration()))
	return track, nil
}
