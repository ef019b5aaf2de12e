package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "remu"
	envPrefix = "REMU_"
)

// Output devices.
const (
	DeviceSpeaker = "speaker"
	DeviceNull    = "null"
)

type Config struct {
	Volume float64      `koanf:"volume"`
	Notify bool         `koanf:"notify"` // desktop notification on each new source
	Output OutputConfig `koanf:"output"`
	HTTP   HTTPConfig   `koanf:"http"`
	Log    LogConfig    `koanf:"log"`
	State  StateConfig  `koanf:"state"`
}

// OutputConfig selects and sizes the output device.
type OutputConfig struct {
	Device          string        `koanf:"device"`           // "speaker" or "null"
	SampleRate      int           `koanf:"sample_rate"`      // Hz
	Buffer          time.Duration `koanf:"buffer"`           // e.g. "100ms"
	ResampleQuality int           `koanf:"resample_quality"` // 1-64
}

// HTTPConfig applies to URL loads.
type HTTPConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
	MaxBytes  int64         `koanf:"max_bytes"` // 0 = unlimited
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// StateConfig locates the settings database.
type StateConfig struct {
	Path          string `koanf:"path"`
	PersistVolume bool   `koanf:"persist_volume"`
}

// keys lists every setting that can be overridden from the environment.
// REMU_OUTPUT_SAMPLE_RATE sets output.sample_rate, and so on.
var keys = []string{
	"volume",
	"notify",
	"output.device",
	"output.sample_rate",
	"output.buffer",
	"output.resample_quality",
	"http.timeout",
	"http.user_agent",
	"http.max_bytes",
	"log.level",
	"log.file",
	"state.path",
	"state.persist_volume",
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Volume: 1.0,
		Notify: true,
		Output: OutputConfig{
			Device:          DeviceSpeaker,
			SampleRate:      44100,
			Buffer:          100 * time.Millisecond,
			ResampleQuality: 4,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "remu/1.0",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(xdg.StateHome, appName, appName+".log"),
		},
		State: StateConfig{
			Path:          filepath.Join(xdg.DataHome, appName, appName+".db"),
			PersistVolume: true,
		},
	}
}

// Load reads the config files, then .env and REMU_* environment overrides.
func Load() (*Config, error) {
	return load(getConfigPaths(), ".env", os.LookupEnv)
}

func load(paths []string, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Process environment wins over .env
	for _, key := range keys {
		name := envName(key)
		val, ok := lookup(name)
		if !ok {
			val, ok = dotenv[name]
		}
		if !ok {
			continue
		}
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.State.Path = expandPath(cfg.State.Path)
	cfg.Normalize()

	return cfg, nil
}

// Normalize replaces out-of-range values with their defaults.
func (c *Config) Normalize() {
	def := Default()

	if c.Volume < 0 {
		c.Volume = 0
	}

	c.Output.Device = strings.ToLower(strings.TrimSpace(c.Output.Device))
	if c.Output.Device != DeviceSpeaker && c.Output.Device != DeviceNull {
		c.Output.Device = def.Output.Device
	}
	if c.Output.SampleRate < 8000 || c.Output.SampleRate > 192000 {
		c.Output.SampleRate = def.Output.SampleRate
	}
	if c.Output.Buffer <= 0 || c.Output.Buffer > 2*time.Second {
		c.Output.Buffer = def.Output.Buffer
	}
	if c.Output.ResampleQuality < 1 || c.Output.ResampleQuality > 64 {
		c.Output.ResampleQuality = def.Output.ResampleQuality
	}

	if c.HTTP.Timeout < 0 {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = def.HTTP.UserAgent
	}
	if c.HTTP.MaxBytes < 0 {
		c.HTTP.MaxBytes = 0
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.State.Path == "" {
		c.State.Path = def.State.Path
	}
}

// Headless reports whether output goes to the silent null device.
func (c *Config) Headless() bool {
	return c.Output.Device == DeviceNull
}

func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/remu/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
