package assembler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervaltrack/internal/clip"
	"intervaltrack/internal/pool"
)

// msClip builds a stereo clip of the given millisecond duration filled
// with a marker value identifying it.
func msClip(ms int, marker int16) *clip.Clip {
	samples := make([]int16, ms*48*clip.Channels)
	for i := range samples {
		samples[i] = marker
	}
	return clip.New(samples)
}

func markerAt(c *clip.Clip, frame int) int16 {
	return c.Samples()[frame*clip.Channels]
}

func frames(ms int) int {
	return clip.FramesForDuration(time.Duration(ms) * time.Millisecond)
}

func TestTrackAssembler_Assemble(t *testing.T) {
	t.Run("should produce track whose duration equals the sum of interval durations exactly", func(t *testing.T) {
		// Arrange
		lib := pool.NewLibrary()
		lib.Add("run", msClip(700, 1))
		lib.Add("walk", msClip(450, 2))
		intervals := []Interval{
			{Duration: 1300 * time.Millisecond, Category: "run"},
			{Duration: 200 * time.Millisecond, Category: "walk"},
			{Duration: 2750 * time.Millisecond, Category: "run"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, frames(1300+200+2750), track.Frames())
		assert.Equal(t, 4250*time.Millisecond, track.Duration())
	})

	t.Run("should assemble the five-plus-three second workout scenario", func(t *testing.T) {
		// Arrange - run pool is two 2s clips, walk pool one 4s clip
		lib := pool.NewLibrary()
		lib.Add("run", msClip(2000, 1)) // clip A
		lib.Add("run", msClip(2000, 2)) // clip B
		lib.Add("walk", msClip(4000, 3))
		intervals := []Interval{
			{Duration: 5 * time.Second, Category: "run"},
			{Duration: 3 * time.Second, Category: "walk"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 8*time.Second, track.Duration())

		// Run segment: A + B + first second of A again
		assert.Equal(t, int16(1), markerAt(track, 0))
		assert.Equal(t, int16(2), markerAt(track, frames(2000)))
		assert.Equal(t, int16(1), markerAt(track, frames(4000)))
		assert.Equal(t, int16(1), markerAt(track, frames(5000)-1))
		// Walk segment starts at exactly the 5s boundary
		assert.Equal(t, int16(3), markerAt(track, frames(5000)))
		assert.Equal(t, int16(3), markerAt(track, frames(8000)-1))
	})

	t.Run("should keep segments in interval order", func(t *testing.T) {
		// Arrange
		lib := pool.NewLibrary()
		lib.Add("warmup", msClip(100, 1))
		lib.Add("run", msClip(100, 2))
		lib.Add("cooldown", msClip(100, 3))
		intervals := []Interval{
			{Duration: 100 * time.Millisecond, Category: "warmup"},
			{Duration: 100 * time.Millisecond, Category: "run"},
			{Duration: 100 * time.Millisecond, Category: "cooldown"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int16(1), markerAt(track, 0))
		assert.Equal(t, int16(2), markerAt(track, frames(100)))
		assert.Equal(t, int16(3), markerAt(track, frames(200)))
	})

	t.Run("should contribute nothing for a zero-duration interval", func(t *testing.T) {
		// Arrange
		lib := pool.NewLibrary()
		lib.Add("run", msClip(100, 1))
		intervals := []Interval{
			{Duration: 0, Category: "run"},
			{Duration: 100 * time.Millisecond, Category: "run"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, frames(100), track.Frames())
	})

	t.Run("should fail with MissingCategoryError before building any segment", func(t *testing.T) {
		// Arrange - the missing category is referenced by the LAST interval
		lib := pool.NewLibrary()
		lib.Add("run", msClip(100, 1))
		intervals := []Interval{
			{Duration: 100 * time.Millisecond, Category: "run"},
			{Duration: 100 * time.Millisecond, Category: "sprint"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		assert.Nil(t, track)
		var missing *pool.MissingCategoryError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "sprint", missing.Category)
		assert.Contains(t, err.Error(), "interval 1")
	})

	t.Run("should fail with InvalidIntervalError for a negative duration", func(t *testing.T) {
		// Arrange
		lib := pool.NewLibrary()
		lib.Add("run", msClip(100, 1))
		intervals := []Interval{
			{Duration: -time.Second, Category: "run"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		assert.Nil(t, track)
		var invalid *InvalidIntervalError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, 0, invalid.Index)
		assert.Equal(t, "run", invalid.Category)
	})

	t.Run("should return an empty track for an empty interval list", func(t *testing.T) {
		// Act
		track, err := NewTrackAssembler().Assemble(nil, pool.NewLibrary())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, track.Frames())
	})
}

func TestTrackAssembler_CursorPolicy(t *testing.T) {
	t.Run("should continue the loop across intervals of the same category by default", func(t *testing.T) {
		// Arrange - pool [A:100ms, B:100ms]; first interval consumes A whole
		lib := pool.NewLibrary()
		lib.Add("run", msClip(100, 1))
		lib.Add("run", msClip(100, 2))
		intervals := []Interval{
			{Duration: 100 * time.Millisecond, Category: "run"},
			{Duration: 100 * time.Millisecond, Category: "run"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert - second segment resumes at B
		require.NoError(t, err)
		assert.Equal(t, int16(1), markerAt(track, 0))
		assert.Equal(t, int16(2), markerAt(track, frames(100)))
	})

	t.Run("should restart each interval at the first clip when persistence is off", func(t *testing.T) {
		// Arrange
		lib := pool.NewLibrary()
		lib.Add("run", msClip(100, 1))
		lib.Add("run", msClip(100, 2))
		intervals := []Interval{
			{Duration: 100 * time.Millisecond, Category: "run"},
			{Duration: 100 * time.Millisecond, Category: "run"},
		}

		// Act
		track, err := NewTrackAssemblerWithPolicy(false, nil).Assemble(intervals, lib)

		// Assert - both segments start at A
		require.NoError(t, err)
		assert.Equal(t, int16(1), markerAt(track, 0))
		assert.Equal(t, int16(1), markerAt(track, frames(100)))
	})

	t.Run("should not let a partially used clip advance the shared cursor", func(t *testing.T) {
		// Arrange - first interval uses half of A; second must resume at A
		lib := pool.NewLibrary()
		lib.Add("run", msClip(100, 1))
		lib.Add("run", msClip(100, 2))
		intervals := []Interval{
			{Duration: 50 * time.Millisecond, Category: "run"},
			{Duration: 100 * time.Millisecond, Category: "run"},
		}

		// Act
		track, err := NewTrackAssembler().Assemble(intervals, lib)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int16(1), markerAt(track, frames(50)))
		assert.Equal(t, int16(1), markerAt(track, frames(150)-1))
	})
}
