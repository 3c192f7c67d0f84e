package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/physics"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := dynamo.DefaultConfig()
	cfg.Size = 10
	cfg.TotalTime = 0.2 // 11 steps at dt = 0.018
	p, err := dynamo.Derive(cfg)
	if err != nil {
		t.Fatal(err)
	}
	state := dynamo.NewState(p.Size, grid.NewRNG(7))
	return NewModel("test", p, physics.NewTuring(p), state)
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicksAdvance(t *testing.T) {
	m := newTestModel(t)

	m = send(m, TickMsg(time.Now()))
	if m.Step() != 8 {
		t.Fatalf("step after one tick = %d, want 8", m.Step())
	}

	m = send(m, TickMsg(time.Now()))
	if m.Step() != 11 {
		t.Fatalf("step after two ticks = %d, want 11", m.Step())
	}
	if m.Running() {
		t.Error("model should stop at the configured step count")
	}

	m = send(m, key(" "))
	if m.Running() {
		t.Error("space must not resume a finished run")
	}
}

func TestModelPauseAndSingleStep(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m = send(m, TickMsg(time.Now()))
	if m.Step() != 0 {
		t.Errorf("paused tick advanced to %d", m.Step())
	}
	m = send(m, key("n"))
	if m.Step() != 1 {
		t.Errorf("single step advanced to %d, want 1", m.Step())
	}
}

func TestModelSpeed(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("-"))
	m = send(m, key("-"))
	m = send(m, key("-"))
	m = send(m, key("-"))
	m = send(m, TickMsg(time.Now()))
	if m.Step() != 1 {
		t.Errorf("steps per frame should bottom out at 1, stepped %d", m.Step())
	}
	m = send(m, key("+"))
	m = send(m, TickMsg(time.Now()))
	if m.Step() != 3 {
		t.Errorf("step = %d, want 3", m.Step())
	}
}

func TestModelTuneAndReset(t *testing.T) {
	m := newTestModel(t)
	a0 := m.Value("a")

	m = send(m, key("up"))
	if got, want := m.Value("a"), a0*1.05; math.Abs(got-want) > 1e-15 {
		t.Errorf("a after up = %v, want %v", got, want)
	}

	m = send(m, key("tab"))
	m = send(m, key("up"))
	if m.Value("b") == dynamo.DefaultB {
		t.Error("tab should move tuning to b")
	}

	m = send(m, TickMsg(time.Now()))
	m = send(m, key("r"))
	if m.Step() != 0 {
		t.Errorf("step after reset = %d", m.Step())
	}
	if m.Value("a") != a0 || m.Value("b") != dynamo.DefaultB {
		t.Error("reset should restore parameters")
	}

	fresh := newTestModel(t)
	if !m.State().U.Equal(fresh.State().U) {
		t.Error("reset should restore the initial U field")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))
	view := m.View()
	for _, want := range []string{"TEST", "RUNNING", "Step", "PARAMETERS", "tau"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m = send(m, key("v"))
	if !strings.Contains(m.View(), "V") {
		t.Error("view should label the V field")
	}
}
