package clip

import (
	"encoding/binary"
	"time"
)

// Audio representation shared by every component: interleaved stereo
// 16-bit PCM at 48kHz. One frame is one sample instant across both
// channels, so a frame is the minimal quantization unit of a duration.
const (
	SampleRate = 48000
	Channels   = 2
	BitDepth   = 16
)

// Clip is an immutable in-memory waveform. Clips are never mutated after
// construction; slicing and concatenation always produce new clips.
type Clip struct {
	samples []int16 // interleaved, len is always a multiple of Channels
}

// New creates a Clip from interleaved int16 samples. The input slice is
// copied so later writes by the caller cannot reach the clip. A trailing
// partial frame is dropped to keep frame alignment.
func New(samples []int16) *Clip {
	n := len(samples) - len(samples)%Channels
	buf := make([]int16, n)
	copy(buf, samples[:n])
	return &Clip{samples: buf}
}

// Empty returns a zero-duration clip.
func Empty() *Clip {
	return &Clip{}
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	return len(c.samples) / Channels
}

// Duration returns the playback duration of the clip.
func (c *Clip) Duration() time.Duration {
	return DurationForFrames(c.Frames())
}

// Samples returns the clip's interleaved samples. The returned slice is
// the clip's backing store and must not be modified.
func (c *Clip) Samples() []int16 {
	return c.samples
}

// Prefix returns a new clip holding the first frames sample frames. The
// receiver is untouched. Asking for more frames than the clip holds
// returns the whole clip; a non-positive count returns an empty clip.
func (c *Clip) Prefix(frames int) *Clip {
	if frames <= 0 {
		return Empty()
	}
	if frames >= c.Frames() {
		return c
	}
	return &Clip{samples: c.samples[:frames*Channels]}
}

// Concat joins clips in order into a single new clip.
func Concat(clips ...*Clip) *Clip {
	total := 0
	for _, c := range clips {
		total += len(c.samples)
	}
	buf := make([]int16, 0, total)
	for _, c := range clips {
		buf = append(buf, c.samples...)
	}
	return &Clip{samples: buf}
}

// FramesForDuration converts a duration to an exact frame count at the
// fixed sample rate. Millisecond durations convert without remainder
// (48 frames per millisecond).
func FramesForDuration(d time.Duration) int {
	return int(d * SampleRate / time.Second)
}

// DurationForFrames converts a frame count back to a duration.
func DurationForFrames(frames int) time.Duration {
	return time.Duration(frames) * time.Second / SampleRate
}

// Bytes returns the clip's samples as little-endian PCM bytes, the
// layout ffmpeg consumes as s16le.
func (c *Clip) Bytes() []byte {
	buf := make([]byte, len(c.samples)*2)
	for i, s := range c.samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// FromBytes parses little-endian s16le PCM bytes into a Clip. A trailing
// odd byte is dropped for int16 alignment.
func FromBytes(raw []byte) *Clip {
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return New(samples)
}
