package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/remu"
	"github.com/llehouerou/remu/internal/config"
	"github.com/llehouerou/remu/internal/notify"
	"github.com/llehouerou/remu/internal/state"
	"github.com/llehouerou/remu/player"
)

func newTestModel(t *testing.T) (model, *player.Mock, *state.Mock) {
	t.Helper()
	p := player.NewMock()
	p.SetDuration(3 * time.Minute)
	store := state.NewMock()
	return newModel(p, store, zerolog.Nop(), ""), p, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

// loaded returns a model whose player has a ready source.
func loaded(t *testing.T) (model, *player.Mock, *state.Mock) {
	t.Helper()
	m, p, store := newTestModel(t)
	cmd := m.load("/music/a.flac")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, player.Playing, p.State(), "a completed load starts playback")
	return m, p, store
}

func TestModel_InitialLoad(t *testing.T) {
	p := player.NewMock()
	m := newModel(p, nil, zerolog.Nop(), "https://example.com/a.mp3")

	assert.NotNil(t, m.Init())
	assert.Equal(t, []string{"https://example.com/a.mp3"}, p.LoadCalls())
}

func TestModel_NoInitialLoad(t *testing.T) {
	m, p, _ := newTestModel(t)
	assert.NotNil(t, m.Init())
	assert.Empty(t, p.LoadCalls())
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_Toggle(t *testing.T) {
	m, p, _ := loaded(t)

	m, _ = update(t, m, key(" "))
	assert.Equal(t, player.Paused, p.State())
	_, _ = update(t, m, key(" "))
	assert.Equal(t, player.Playing, p.State())
}

func TestModel_Stop(t *testing.T) {
	m, p, _ := loaded(t)
	_, _ = update(t, m, key("s"))
	assert.Equal(t, player.Idle, p.State())
}

func TestModel_Seek(t *testing.T) {
	m, p, _ := loaded(t)
	p.SetPosition(time.Minute)

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("shift+right"))
	_, _ = update(t, m, key("r"))

	assert.Equal(t, []time.Duration{
		time.Minute + seekStep,
		time.Minute + seekStep - seekStep,
		time.Minute + seekStepLong,
		0,
	}, p.SeekCalls())
}

func TestModel_SeekWithoutSourceIsHarmless(t *testing.T) {
	m, p, _ := newTestModel(t)
	m, _ = update(t, m, key("right"))
	assert.Equal(t, player.Idle, p.State())
	assert.Empty(t, m.lastErr)
}

func TestModel_VolumePersisted(t *testing.T) {
	m, p, store := newTestModel(t)

	m, _ = update(t, m, key("-"))
	m, _ = update(t, m, key("-"))
	assert.InDelta(t, 0.9, p.Volume(), 1e-9)

	m, _ = update(t, m, key("m"))
	assert.True(t, p.Muted())

	saved, err := store.GetVolume()
	require.NoError(t, err)
	assert.Equal(t, state.VolumeState{Volume: 0.9, Muted: true}, saved)

	_, _ = update(t, m, key("+"))
	assert.InDelta(t, 0.95, p.Volume(), 1e-9)
	assert.False(t, p.Muted(), "raising the volume unmutes")
	assert.Equal(t, 4, store.Saves())
}

func TestModel_VolumeFloorsAtZero(t *testing.T) {
	m, p, _ := newTestModel(t)
	p.SetVolume(0.02)

	_, _ = update(t, m, key("-"))
	assert.Zero(t, p.Volume())
}

func TestModel_NoStore(t *testing.T) {
	p := player.NewMock()
	m := newModel(p, nil, zerolog.Nop(), "")

	_, _ = update(t, m, key("+"))
	assert.InDelta(t, 1.05, p.Volume(), 1e-9)
}

func TestModel_OpenPrompt(t *testing.T) {
	m, p, _ := newTestModel(t)

	m, _ = update(t, m, key("o"))
	require.True(t, m.prompt)

	for _, r := range "/tmp/x.wav" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, player.Idle, p.State(), "typing does not trigger actions")

	m, cmd := update(t, m, key("enter"))
	assert.False(t, m.prompt)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"/tmp/x.wav"}, p.LoadCalls())

	_, _ = update(t, m, cmd())
	assert.Equal(t, player.Playing, p.State())
}

func TestModel_OpenPromptCancel(t *testing.T) {
	m, p, _ := newTestModel(t)

	m, _ = update(t, m, key("o"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	m, cmd := update(t, m, key("esc"))

	assert.False(t, m.prompt)
	assert.Nil(t, cmd)
	assert.Empty(t, p.LoadCalls())
	assert.Empty(t, m.input.Value())
}

func TestModel_LoadFailureShown(t *testing.T) {
	m, p, _ := newTestModel(t)
	p.SetLoadError(remu.NewError(remu.OpOpenFile, "/nope.wav", remu.ErrNotFound, nil))

	cmd := m.load("/nope.wav")
	m, _ = update(t, m, cmd())

	assert.Equal(t, player.Idle, p.State())
	assert.Contains(t, m.lastErr, "source not found")
	assert.Contains(t, m.View(), "source not found")
}

func TestModel_AbortedLoadIsSilent(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, loadDoneMsg{origin: "a", err: remu.ErrAborted})
	assert.Empty(t, m.lastErr)

	m, _ = update(t, m, loadDoneMsg{origin: "a", err: errors.Join(errors.New("superseded"), remu.ErrAborted)})
	assert.Empty(t, m.lastErr)
}

func TestModel_ErrorEvents(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, eventMsg(remu.ErrorEvent("Failed to fetch url 'x': network error")))
	assert.Equal(t, "Failed to fetch url 'x': network error", m.lastErr)

	m, _ = update(t, m, eventMsg(remu.NewEvent(remu.KindLoadStart)))
	assert.Empty(t, m.lastErr, "a new load clears the previous error")
}

func TestModel_NotifiesNowPlaying(t *testing.T) {
	m, _, _ := newTestModel(t)
	rec := &notify.Recorder{}
	m.notifier = rec

	m, _ = update(t, m, m.load("/music/first.flac")())
	m, _ = update(t, m, m.load("/music/second.flac")())

	sent := rec.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "/music/first.flac", sent[0].Title)
	assert.Zero(t, sent[0].ReplacesID)
	assert.Equal(t, "/music/second.flac", sent[1].Title)
	assert.Equal(t, uint32(1), sent[1].ReplacesID, "the previous notification is replaced")
	assert.Equal(t, uint32(1), m.notifyID)
}

func TestModel_NotifiesLoadFailure(t *testing.T) {
	m, p, _ := newTestModel(t)
	rec := &notify.Recorder{}
	m.notifier = rec
	p.SetLoadError(remu.NewError(remu.OpOpenFile, "/nope.wav", remu.ErrNotFound, nil))

	m, _ = update(t, m, m.load("/nope.wav")())
	_, _ = update(t, m, loadDoneMsg{origin: "x", err: remu.ErrAborted})

	sent := rec.Sent()
	require.Len(t, sent, 1, "aborted loads are not reported")
	assert.Equal(t, "Playback failed", sent[0].Title)
	assert.Contains(t, sent[0].Body, "source not found")
}

func TestModel_Tick(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := update(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestModel_View(t *testing.T) {
	m, _, _ := loaded(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})

	view := m.View()
	assert.Contains(t, view, "a.flac")
	assert.Contains(t, view, "Playing")

	m, _ = update(t, m, key("?"))
	assert.Contains(t, m.View(), "Open path or URL")
	assert.Contains(t, m.View(), "space")
}

func TestPlayerOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Device = config.DeviceNull

	opts := playerOptions(cfg, zerolog.Nop(), nil)
	assert.Len(t, opts, 9)

	cfg.Output.Device = config.DeviceSpeaker
	assert.Len(t, playerOptions(cfg, zerolog.Nop(), &state.VolumeState{Volume: 0.3}), 8)
}

func TestRestoreVolume(t *testing.T) {
	cfg := config.Default()
	store := state.NewMock()
	require.NoError(t, store.SaveVolume(state.VolumeState{Volume: 0.4, Muted: true}))

	v := restoreVolume(cfg, store, zerolog.Nop())
	require.NotNil(t, v)
	assert.Equal(t, state.VolumeState{Volume: 0.4, Muted: true}, *v)

	assert.Nil(t, restoreVolume(cfg, nil, zerolog.Nop()))

	cfg.State.PersistVolume = false
	assert.Nil(t, restoreVolume(cfg, store, zerolog.Nop()))
}

func TestOpenLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "remu.log")

	log, closer, err := openLog(config.LogConfig{Level: "bogus", File: path})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	assert.FileExists(t, path)
}
