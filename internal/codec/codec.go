package codec

import (
	"fmt"

	"intervaltrack/internal/clip"
)

// Codec is the boundary between the assembly core and concrete audio
// formats. The core never touches container or compression details;
// implementations are swappable and are the only place that does.
type Codec interface {
	// Decode loads the audio file at path into a clip at the module's
	// fixed PCM representation.
	Decode(path string) (*clip.Clip, error)
	// Encode writes the track to path, inferring the container from the
	// path's extension.
	Encode(track *clip.Clip, path string) error
}

// DecodeError reports a source file that could not be loaded as audio.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode audio file %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports a failure writing or encoding the final track.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode track to %q: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
