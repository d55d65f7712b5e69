// Package config holds the settings of the stave command. The defaults are
// embedded in the binary; a config.yml in the stave directory under the user
// config directory overrides any of them.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vsariola/stave"
	"github.com/vsariola/stave/midifile"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

type (
	Config struct {
		Log    LogConfig
		Edit   EditConfig
		Export ExportConfig
		MIDI   MIDIConfig `yaml:"midi"`

		// YmlError is the error reading the user's config file, if one exists
		YmlError error `yaml:"-"`
	}

	LogConfig struct {
		Level string
	}

	// EditConfig gives the octave and the duration used when a command does
	// not name them.
	EditConfig struct {
		Octave   stave.Octave
		Duration stave.Pulse
	}

	ExportConfig struct {
		Format string
		Title  string `yaml:",omitempty"`
	}

	MIDIConfig struct {
		Tempo      float64
		Channel    uint8
		Velocity   uint8
		Resolution uint16
	}
)

// Formats lists the export formats, the first being the default.
var Formats = []string{"mei", "midi", "yaml", "json"}

var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.yml
var defaultConfigYaml []byte

// Default returns the embedded configuration.
func Default() Config {
	var config Config
	if err := yaml.UnmarshalStrict(defaultConfigYaml, &config); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return config
}

// ReadCustomConfigYml reads filename from the stave directory under the user
// config directory into target, which must be a pointer.
func ReadCustomConfigYml(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "stave", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.Unmarshal(bytes, target)
	return true, err
}

// Make returns the defaults overridden by the user's config.yml. If the user
// file cannot be parsed or holds invalid values, the defaults are returned
// as they are and the error is reported in YmlError.
func Make() Config {
	config := Default()
	exists, err := ReadCustomConfigYml("config.yml", &config)
	if exists {
		if err == nil {
			err = config.Validate()
		}
		if err != nil {
			config = Default()
			config.YmlError = err
		}
	}
	return config
}

// LoadFile returns the defaults overridden by the file at path.
func LoadFile(path string) (Config, error) {
	config := Default()
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not read config")
	}
	if err := yaml.UnmarshalStrict(bytes, &config); err != nil {
		return Config{}, errors.Wrapf(err, "could not parse config %v", path)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Edit.Duration <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "edit duration %d is not positive", c.Edit.Duration)
	}
	if !slices.Contains(Formats, c.Export.Format) {
		return errors.Wrapf(ErrInvalidConfig, "unknown export format %q", c.Export.Format)
	}
	return nil
}

// SlogLevel parses Log.Level; the names are the ones slog uses (debug, info,
// warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "log level %q", c.Log.Level)
	}
	return l, nil
}

// DefaultNote is stave.DefaultNote moved to the configured octave.
func (c Config) DefaultNote() stave.Note {
	n := stave.DefaultNote
	n.Octave = c.Edit.Octave
	return n
}

func (c Config) MIDIOptions() midifile.Options {
	return midifile.Options{
		Tempo:      c.MIDI.Tempo,
		Channel:    c.MIDI.Channel,
		Velocity:   c.MIDI.Velocity,
		Resolution: c.MIDI.Resolution,
		Name:       c.Export.Title,
	}
}
