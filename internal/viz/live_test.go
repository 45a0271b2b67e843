package viz

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/sphfluid/internal/config"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Name = "test"
	cfg.Fill.Count = 20
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tickOnce(m Model) Model {
	next, _ := m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func TestModelAddRemove(t *testing.T) {
	m := testModel(t)
	n := m.Fluid().Len()

	m = press(m, "a")
	m = press(m, "a")
	if got := m.Fluid().Len(); got != n+2 {
		t.Fatalf("expected %d particles after two adds, got %d", n+2, got)
	}
	ps := m.Fluid().Particles()
	if ps[n].Position == ps[n+1].Position {
		t.Error("consecutive drops should not land on the same point")
	}

	m = press(m, "x")
	if got := m.Fluid().Len(); got != n+1 {
		t.Errorf("expected %d particles after remove, got %d", n+1, got)
	}
}

func TestModelRemoveEmpty(t *testing.T) {
	m := testModel(t)
	for m.Fluid().Len() > 0 {
		m = press(m, "x")
	}
	m = press(m, "x")
	m = tickOnce(m)
	if m.Fluid().Len() != 0 {
		t.Error("removing from an empty fluid should be a no-op")
	}
	if m.Fluid().Frame() != 0 {
		t.Error("stepping an empty fluid should not advance the frame")
	}
}

func TestModelPauseAndStep(t *testing.T) {
	m := testModel(t)

	m = tickOnce(m)
	if m.Fluid().Frame() != 1 {
		t.Fatalf("expected frame 1 after a tick, got %d", m.Fluid().Frame())
	}
	if len(m.energyHistory) != 1 {
		t.Errorf("expected one energy sample, got %d", len(m.energyHistory))
	}

	m = press(m, " ")
	m = tickOnce(m)
	if m.Fluid().Frame() != 1 {
		t.Error("paused model should not step on tick")
	}

	m = press(m, ".")
	if m.Fluid().Frame() != 2 {
		t.Error("'.' should single-step while paused")
	}
}

func TestModelDamAndReset(t *testing.T) {
	m := testModel(t)
	n := m.Fluid().Len()

	m = press(m, "b")
	if !m.dam {
		t.Error("'b' should raise the dam")
	}

	m = press(m, "a")
	m = tickOnce(m)
	m = press(m, "r")
	if m.dam {
		t.Error("reset should restore the configured dam state")
	}
	if m.Fluid().Len() != n || m.Fluid().Frame() != 0 {
		t.Errorf("reset should rebuild the fluid, got len=%d frame=%d", m.Fluid().Len(), m.Fluid().Frame())
	}
	if len(m.energyHistory) != 0 {
		t.Error("reset should clear the energy history")
	}
}

func TestModelDamBreaks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fill.Count = 20
	cfg.Run.DamBreak = 3
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatal(err)
	}

	m = press(m, "b")
	for i := 0; i < 3; i++ {
		m = tickOnce(m)
	}
	if !m.dam {
		t.Fatal("dam should hold for dam_break frames")
	}

	m = tickOnce(m)
	if m.dam {
		t.Error("dam should break once dam_break frames have passed")
	}
	if m.status != "dam broke" {
		t.Errorf("expected status 'dam broke', got %q", m.status)
	}
}

func TestModelRecordingLimit(t *testing.T) {
	t.Chdir(t.TempDir())
	m := testModel(t)

	m = press(m, "g")
	if !m.recording {
		t.Fatal("'g' should start recording")
	}
	frame := CaptureFrame(m.canvas)
	for len(m.frames) < maxGIFFrames-1 {
		m.frames = append(m.frames, frame)
	}

	m = tickOnce(m)
	if m.recording {
		t.Error("recording should stop at the frame limit")
	}
	if m.frames != nil {
		t.Errorf("frames should be released after saving, have %d", len(m.frames))
	}
	if m.status != fmt.Sprintf("saved %d frames to %s", maxGIFFrames, gifPath) {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestModelAdjustParam(t *testing.T) {
	m := testModel(t)
	for m.paramKeys[m.selected] != "gravity" {
		m = press(m, "tab")
	}
	before := m.Fluid().Params().Gravity

	m = press(m, "up")
	if got := m.Fluid().Params().Gravity; got <= before {
		t.Errorf("expected gravity to increase from %g, got %g", before, got)
	}
}

func TestModelView(t *testing.T) {
	m := testModel(t)
	m = tickOnce(m)
	m = tickOnce(m)
	if out := m.View(); out == "" {
		t.Error("expected non-empty view")
	}

	m = press(m, "?")
	if !m.showHelp {
		t.Error("'?' should toggle help")
	}
}

func TestInteractiveStart(t *testing.T) {
	a := NewInteractiveApp()
	next, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	started := next.(app)
	if started.state != stateSim {
		t.Fatalf("enter should start the selected preset")
	}
	if started.liveModel.cfg.Name != a.presets[0] {
		t.Errorf("expected preset %s, got %s", a.presets[0], started.liveModel.cfg.Name)
	}
}
