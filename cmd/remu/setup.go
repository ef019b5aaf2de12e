package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/remu/internal/config"
	"github.com/llehouerou/remu/internal/state"
	"github.com/llehouerou/remu/player"
)

// openLog opens the log file, creating its directory. The terminal belongs
// to the UI, so nothing is logged to it.
func openLog(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	log := zerolog.New(zerolog.SyncWriter(f)).
		Level(level).
		With().
		Timestamp().
		Str("app", "remu").
		Logger()
	return log, f, nil
}

// playerOptions translates the config into player options.
func playerOptions(cfg *config.Config, log zerolog.Logger, saved *state.VolumeState) []player.Option {
	volume := cfg.Volume
	if saved != nil {
		volume = saved.Volume
	}

	opts := []player.Option{
		player.WithLogger(log),
		player.WithSampleRate(cfg.Output.SampleRate),
		player.WithBuffer(cfg.Output.Buffer),
		player.WithResampleQuality(cfg.Output.ResampleQuality),
		player.WithVolume(volume),
		player.WithHTTPTimeout(cfg.HTTP.Timeout),
		player.WithUserAgent(cfg.HTTP.UserAgent),
		player.WithMaxBytes(cfg.HTTP.MaxBytes),
	}
	if cfg.Headless() {
		opts = append(opts, player.WithHeadlessOutput())
	}
	return opts
}

// restoreVolume reads the saved volume when persistence is enabled.
func restoreVolume(cfg *config.Config, store state.Interface, log zerolog.Logger) *state.VolumeState {
	if !cfg.State.PersistVolume || store == nil {
		return nil
	}
	v, err := store.GetVolume()
	if err != nil {
		log.Warn().Err(err).Msg("reading saved volume")
		return nil
	}
	return &v
}

const tickInterval = 250 * time.Millisecond
