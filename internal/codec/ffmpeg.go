package codec

import (
	"bytes"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"intervaltrack/internal/clip"
)

// FFmpegCodec decodes and encodes audio by running the ffmpeg binary as a
// child process, piping raw s16le PCM over stdout/stdin. ffmpeg handles
// every container format, so nothing here is format-specific.
type FFmpegCodec struct {
	ffmpegPath string
	logger     *zap.Logger
}

// NewFFmpegCodec creates an FFmpegCodec that finds ffmpeg on PATH.
func NewFFmpegCodec() *FFmpegCodec {
	return NewFFmpegCodecWithLogger(nil)
}

// NewFFmpegCodecWithLogger creates an FFmpegCodec with the given logger.
func NewFFmpegCodecWithLogger(logger *zap.Logger) *FFmpegCodec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegCodec{ffmpegPath: "ffmpeg", logger: logger}
}

// SetFFmpegPath overrides the ffmpeg binary location, for non-standard
// installs and for tests.
func (f *FFmpegCodec) SetFFmpegPath(path string) {
	f.ffmpegPath = path
}

// Decode runs ffmpeg to convert the file at path into interleaved stereo
// int16 PCM at the module's fixed sample rate.
func (f *FFmpegCodec) Decode(path string) (*clip.Clip, error) {
	f.logger.Debug("decoding source file", zap.String("path", path))

	cmd := exec.Command(f.ffmpegPath,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(clip.SampleRate),
		"-ac", strconv.Itoa(clip.Channels),
		"-loglevel", "error",
		"pipe:1",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		f.logger.Error("ffmpeg decode failed",
			zap.String("path", path),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return nil, &DecodeError{Path: path, Err: err}
	}

	c := clip.FromBytes(out)
	f.logger.Info("decoded source file",
		zap.String("path", path),
		zap.Duration("duration", c.Duration()))
	return c, nil
}

// Encode runs ffmpeg to write the track to path, feeding raw PCM on
// stdin. The output container is chosen by ffmpeg from the extension.
func (f *FFmpegCodec) Encode(track *clip.Clip, path string) error {
	f.logger.Debug("encoding track",
		zap.String("path", path),
		zap.Duration("duration", track.Duration()))

	cmd := exec.Command(f.ffmpegPath,
		"-f", "s16le",
		"-ar", strconv.Itoa(clip.SampleRate),
		"-ac", strconv.Itoa(clip.Channels),
		"-i", "pipe:0",
		"-loglevel", "error",
		"-y",
		path,
	)
	cmd.Stdin = bytes.NewReader(track.Bytes())

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		f.logger.Error("ffmpeg encode failed",
			zap.String("path", path),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return &EncodeError{Path: path, Err: err}
	}

	f.logger.Info("encoded track", zap.String("path", path))
	return nil
}
