package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/remu"
	"github.com/llehouerou/remu/internal/keymap"
	"github.com/llehouerou/remu/internal/notify"
	"github.com/llehouerou/remu/internal/state"
	"github.com/llehouerou/remu/internal/ui/playerbar"
	"github.com/llehouerou/remu/player"
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 30 * time.Second
	volumeStep   = 0.05
)

type tickMsg time.Time

// eventMsg carries a player event into the update loop.
type eventMsg remu.Event

// loadDoneMsg reports the outcome of a load task.
type loadDoneMsg struct {
	origin string
	err    error
}

type model struct {
	player   player.Interface
	store    state.Interface // nil when volume is not persisted
	notifier notify.Notifier // nil when notifications are off
	notifyID uint32
	keys     *keymap.Resolver
	log      zerolog.Logger
	input    textinput.Model
	initial  string
	prompt   bool
	showHelp bool
	lastErr  string
	width    int
}

func newModel(p player.Interface, store state.Interface, log zerolog.Logger, initial string) model {
	in := textinput.New()
	in.Placeholder = "path or URL"
	in.Prompt = "open: "
	in.CharLimit = 4096

	return model{
		player:  p,
		store:   store,
		keys:    keymap.Default(),
		log:     log,
		input:   in,
		initial: initial,
		width:   80,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.initial != "" {
		cmds = append(cmds, m.load(m.initial))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case eventMsg:
		switch msg.Kind {
		case remu.KindLoadStart:
			m.lastErr = ""
		case remu.KindError:
			m.lastErr = msg.Message
			if m.player.State() == player.Error {
				m.notify(notify.Failed(msg.Message))
			}
		}
		return m, nil

	case loadDoneMsg:
		switch {
		case msg.err == nil:
			m.player.Play()
			if info, ok := m.player.Source(); ok {
				m.notify(notify.NowPlaying(info))
			}
		case errors.Is(msg.err, remu.ErrAborted):
			// superseded by a newer load
		default:
			m.lastErr = msg.err.Error()
			m.notify(notify.Failed(m.lastErr))
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt {
			return m.updatePrompt(msg)
		}
		return m.handleAction(m.keys.Resolve(msg.String()))
	}

	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		src := strings.TrimSpace(m.input.Value())
		m.prompt = false
		m.input.Blur()
		m.input.Reset()
		if src == "" {
			return m, nil
		}
		return m, m.load(src)
	case tea.KeyEsc:
		m.prompt = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleAction(a keymap.Action) (tea.Model, tea.Cmd) {
	switch a {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionOpen:
		m.prompt = true
		return m, m.input.Focus()
	case keymap.ActionPlayPause:
		m.player.Toggle()
	case keymap.ActionStop:
		m.player.Stop()
	case keymap.ActionReplay:
		m.seekTo(0)
	case keymap.ActionSeekForward:
		m.seekBy(seekStep)
	case keymap.ActionSeekBack:
		m.seekBy(-seekStep)
	case keymap.ActionSeekForwardLong:
		m.seekBy(seekStepLong)
	case keymap.ActionSeekBackLong:
		m.seekBy(-seekStepLong)
	case keymap.ActionVolumeUp:
		m.setVolume(m.player.Volume() + volumeStep)
	case keymap.ActionVolumeDown:
		m.setVolume(m.player.Volume() - volumeStep)
	case keymap.ActionMute:
		m.player.SetMuted(!m.player.Muted())
		m.saveVolume()
	}
	return m, nil
}

// load starts loading src and returns a command that waits for the outcome.
func (m model) load(src string) tea.Cmd {
	task := m.player.Load(src)
	return func() tea.Msg {
		return loadDoneMsg{origin: task.Origin(), err: task.Wait(context.Background())}
	}
}

// notify replaces the previous notification so only one is on screen.
func (m *model) notify(n notify.Notification) {
	if m.notifier == nil {
		return
	}
	n.ReplacesID = m.notifyID
	id, err := m.notifier.Notify(n)
	if err != nil {
		m.log.Debug().Err(err).Msg("notification failed")
		return
	}
	m.notifyID = id
}

func (m model) seekBy(d time.Duration) {
	m.seekTo(m.player.Position() + d)
}

func (m model) seekTo(pos time.Duration) {
	if err := m.player.Seek(pos); err != nil {
		m.log.Debug().Err(err).Dur("target", pos).Msg("seek ignored")
	}
}

func (m model) setVolume(v float64) {
	// round to the step so repeated presses land on whole percentages
	v = float64(int(max(v, 0)*100+0.5)) / 100
	m.player.SetVolume(v)
	m.saveVolume()
}

func (m model) saveVolume() {
	if m.store == nil {
		return
	}
	m.store.QueueVolume(state.VolumeState{Volume: m.player.Volume(), Muted: m.player.Muted()})
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(playerbar.Render(playerbar.NewState(m.player), m.width))
	b.WriteString("\n")

	switch {
	case m.prompt:
		b.WriteString(m.input.View())
	case m.lastErr != "":
		b.WriteString(playerbar.ErrorStyle().Render(m.lastErr))
	default:
		b.WriteString(playerbar.HintStyle().Render(m.player.State().String() + "  ·  ? for help"))
	}
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(helpView(m.keys))
	}
	return b.String()
}

func helpView(r *keymap.Resolver) string {
	var b strings.Builder
	for _, ctx := range keymap.Contexts {
		for _, kb := range keymap.ByContext(ctx) {
			labels := make([]string, 0, len(kb.Keys))
			for _, k := range r.KeysFor(kb.Action) {
				labels = append(labels, keymap.KeyLabel(k))
			}
			b.WriteString(playerbar.HintStyle().Render("  " + strings.Join(labels, "/") + "  " + kb.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
