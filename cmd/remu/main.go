// Command remu is a terminal host for the playback engine: it loads a path or
// URL and exposes transport and volume keys.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/remu"
	"github.com/llehouerou/remu/internal/config"
	"github.com/llehouerou/remu/internal/mpris"
	"github.com/llehouerou/remu/internal/notify"
	"github.com/llehouerou/remu/internal/state"
	"github.com/llehouerou/remu/internal/stderr"
	"github.com/llehouerou/remu/player"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "remu: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: remu [path-or-url]")
	}
	var initial string
	if len(args) == 1 {
		initial = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, logFile, err := openLog(cfg.Log)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()

	capture, err := stderr.Start(log)
	if err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer capture.Stop()

	var store state.Interface
	if cfg.State.PersistVolume {
		mgr, err := state.Open(cfg.State.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.State.Path).Msg("settings store unavailable")
		} else {
			store = mgr
			defer mgr.Close()
		}
	}

	saved := restoreVolume(cfg, store, log)
	p, err := player.New(playerOptions(cfg, log, saved)...)
	if err != nil {
		return err
	}
	defer p.Close()
	if saved != nil {
		p.SetMuted(saved.Muted)
	}

	if remote, err := mpris.New(p, log); err != nil {
		log.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer remote.Close()
	}

	m := newModel(p, store, log, initial)
	if cfg.Notify {
		if m.notifier, err = notify.New(); err != nil {
			log.Warn().Err(err).Msg("notifications unavailable")
			m.notifier = nil
		}
	}

	prog := tea.NewProgram(m, tea.WithAltScreen())
	p.RegisterObserver(func(e remu.Event) {
		prog.Send(eventMsg(e))
	})

	log.Info().
		Str("device", cfg.Output.Device).
		Int("sample_rate", cfg.Output.SampleRate).
		Msg("starting")

	if _, err := prog.Run(); err != nil {
		return err
	}
	log.Info().Msg("exiting")
	return nil
}
