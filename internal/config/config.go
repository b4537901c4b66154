package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// IntervalSpec is one configured timeline entry: play the named source
// category for the given number of milliseconds.
type IntervalSpec struct {
	DurationMS int    `mapstructure:"duration"`
	Source     string `mapstructure:"source"`
}

// Configuration provides type-safe access to application settings.
//
// The config file has three sections:
//
//	settings:  output_dir, format, ffmpeg_path
//	source:    category label -> ordered list of audio files
//	output:    output name -> ordered list of {duration, source}
type Configuration struct {
	viper *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("settings.output_dir", "./output")
	v.SetDefault("settings.format", "mp3")
	v.SetDefault("settings.ffmpeg_path", "ffmpeg")
	return v
}

// NewConfiguration creates a Configuration instance with default settings.
func NewConfiguration() *Configuration {
	return &Configuration{viper: newViper()}
}

// NewConfigurationFromFile creates a Configuration instance from a config file.
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads
// settings overrides from environment variables.
func NewConfigurationFromEnv() (*Configuration, error) {
	v := newViper()

	v.SetEnvPrefix("INTERVALTRACK")
	v.AutomaticEnv()

	v.BindEnv("settings.output_dir", "OUTPUT_DIR")
	v.BindEnv("settings.format", "OUTPUT_FORMAT")
	v.BindEnv("settings.ffmpeg_path", "FFMPEG_PATH")

	return &Configuration{viper: v}, nil
}

// GetOutputDir returns the directory encoded tracks are written to.
func (c *Configuration) GetOutputDir() string {
	return c.viper.GetString("settings.output_dir")
}

// GetOutputFormat returns the container extension for encoded tracks.
func (c *Configuration) GetOutputFormat() string {
	return c.viper.GetString("settings.format")
}

// GetFFmpegPath returns the ffmpeg binary location.
func (c *Configuration) GetFFmpegPath() string {
	return c.viper.GetString("settings.ffmpeg_path")
}

// GetSources returns the category -> source file list mapping. Category
// labels are lowercased by the config layer.
func (c *Configuration) GetSources() map[string][]string {
	return c.viper.GetStringMapStringSlice("source")
}

// GetOutputs returns the output name -> interval list mapping.
func (c *Configuration) GetOutputs() (map[string][]IntervalSpec, error) {
	outputs := make(map[string][]IntervalSpec)
	if err := c.viper.UnmarshalKey("output", &outputs); err != nil {
		return nil, fmt.Errorf("failed to parse output section: %w", err)
	}
	return outputs, nil
}

// Validate checks the whole configuration and reports every issue found
// in a single error, so a broken config file can be fixed in one pass.
func (c *Configuration) Validate() error {
	var issues []string

	outputDir := c.GetOutputDir()
	if outputDir == "" {
		issues = append(issues, "settings.output_dir must not be empty")
	} else if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		issues = append(issues, fmt.Sprintf("settings.output_dir %q is not a directory", outputDir))
	}
	if c.GetOutputFormat() == "" {
		issues = append(issues, "settings.format must not be empty")
	}

	sources := c.GetSources()
	if len(sources) == 0 {
		issues = append(issues, "source section has no content")
	}
	for category, files := range sources {
		if len(files) == 0 {
			issues = append(issues, fmt.Sprintf("source %q has no files", category))
		}
	}

	outputs, err := c.GetOutputs()
	if err != nil {
		issues = append(issues, err.Error())
	} else {
		if len(outputs) == 0 {
			issues = append(issues, "output section has no content")
		}
		for name, specs := range outputs {
			if len(specs) == 0 {
				issues = append(issues, fmt.Sprintf("output %q has no intervals", name))
			}
			for i, spec := range specs {
				if spec.DurationMS < 0 {
					issues = append(issues, fmt.Sprintf("output %q interval #%d has negative duration", name, i))
				}
				if spec.Source == "" {
					issues = append(issues, fmt.Sprintf("output %q interval #%d has no source", name, i))
				} else if _, ok := sources[strings.ToLower(spec.Source)]; !ok {
					issues = append(issues, fmt.Sprintf("output %q interval #%d references undefined source %q", name, i, spec.Source))
				}
			}
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("configuration invalid:\n  - %s", strings.Join(issues, "\n  - "))
	}
	return nil
}
