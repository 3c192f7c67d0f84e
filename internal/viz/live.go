package viz

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
)

const (
	frameRate        = time.Second / 30
	historyCapacity  = 300
	maxStepsPerFrame = 512
	maxRecorded      = 400
	DefaultGIFPath   = "turing.gif"
)

type TickMsg time.Time

// Model is the bubbletea model of the live field viewer. It owns a copy of
// the initial state and steps its own working state in frames.
type Model struct {
	name    string
	sim     *dynamo.Simulator
	stepper dynamo.Stepper
	params  dynamo.Params

	initial *dynamo.State
	state   *dynamo.State
	step    int

	stepsPerFrame int
	running       bool
	showV         bool
	width         int
	err           error
	note          string

	values        map[string]float64
	initialValues map[string]float64
	paramKeys     []string
	selected      int

	meanHistory []float64

	recording bool
	frames    []*grid.Field
	GIFPath   string
}

// NewModel prepares a viewer for a simulation described by p. The initial
// state is cloned; the caller keeps ownership of start.
func NewModel(name string, p dynamo.Params, stepper dynamo.Stepper, start *dynamo.State) Model {
	values := make(map[string]float64)
	if c, ok := stepper.(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			values[k] = v
		}
	}
	keys := make([]string, 0, len(values))
	initialValues := make(map[string]float64, len(values))
	for k, v := range values {
		keys = append(keys, k)
		initialValues[k] = v
	}
	sort.Strings(keys)

	return Model{
		name:          name,
		sim:           dynamo.New(p, stepper),
		stepper:       stepper,
		params:        p,
		initial:       start.Clone(),
		state:         start.Clone(),
		stepsPerFrame: 8,
		running:       true,
		width:         64,
		values:        values,
		initialValues: initialValues,
		paramKeys:     keys,
		meanHistory:   make([]float64, 0, historyCapacity),
		GIFPath:       DefaultGIFPath,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input and advances the simulation on each tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			if m.err == nil && m.step < m.params.Steps {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "v":
			m.showV = !m.showV
		case "p":
			names := PaletteNames()
			for i, name := range names {
				if name == CurrentPalette.Name {
					SetPalette(names[(i+1)%len(names)])
					break
				}
			}
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*grid.Field, 0, 64)
				m.note = ""
			}
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-48, 16)
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the working state up to n times, never past Params.Steps.
func (m *Model) advance(n int) {
	if remaining := m.params.Steps - m.step; n > remaining {
		n = remaining
	}
	if n <= 0 {
		m.running = false
		return
	}
	taken, err := m.sim.Advance(m.state, m.step, n)
	m.step += taken
	if err != nil {
		m.err = err
		m.running = false
	}
	if m.step >= m.params.Steps {
		m.running = false
	}

	m.meanHistory = append(m.meanHistory, m.state.U.Stats().Mean)
	if len(m.meanHistory) > historyCapacity {
		m.meanHistory = m.meanHistory[1:]
	}
	if m.recording && len(m.frames) < maxRecorded {
		m.frames = append(m.frames, m.displayed().Clone())
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam nudges the selected parameter by 5% of its initial magnitude.
func (m *Model) adjustParam(dir int) {
	if len(m.paramKeys) == 0 {
		return
	}
	c, ok := m.stepper.(dynamo.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.selected]
	delta := 0.05 * math.Abs(m.initialValues[key])
	if delta == 0 {
		delta = 1e-3
	}
	next := m.values[key] + float64(dir)*delta
	if err := c.SetParam(key, next); err != nil {
		m.note = err.Error()
		return
	}
	m.values[key] = next
	m.note = ""
}

// reset restores the initial fields and parameters.
func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.step = 0
	m.err = nil
	m.note = ""
	m.running = true
	m.meanHistory = m.meanHistory[:0]
	c, ok := m.stepper.(dynamo.Configurable)
	for k, v := range m.initialValues {
		m.values[k] = v
		if ok {
			_ = c.SetParam(k, v)
		}
	}
}

func (m *Model) stopRecording() {
	m.recording = false
	if len(m.frames) == 0 {
		return
	}
	f, err := os.Create(m.GIFPath)
	if err != nil {
		m.note = err.Error()
		return
	}
	defer f.Close()
	if err := EncodeGIF(f, m.frames, 4, CurrentPalette); err != nil {
		m.note = err.Error()
		return
	}
	m.note = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.GIFPath)
	m.frames = nil
}

func (m Model) displayed() *grid.Field {
	if m.showV {
		return m.state.V
	}
	return m.state.U
}

// Step returns the number of steps taken since the last reset.
func (m Model) Step() int { return m.step }

// Running reports whether ticks currently advance the simulation.
func (m Model) Running() bool { return m.running }

func (m Model) State() *dynamo.State { return m.state }

func (m Model) Value(name string) float64 { return m.values[name] }

func (m Model) Err() error { return m.err }

// View renders the field next to a status panel.
func (m Model) View() string {
	field := "U"
	if m.showV {
		field = "V"
	}
	fieldView := Panel.Render(Title.Render(field) + "\n" + Heatmap(m.displayed(), m.width))

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.name)) + "\n")

	var status string
	switch {
	case m.err != nil:
		status = StatusFailed.Render("UNSTABLE")
	case m.step >= m.params.Steps:
		status = StatusPaused.Render("DONE")
	case m.running:
		status = StatusRunning.Render("RUNNING")
	default:
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	t := float64(m.step) * m.params.Dt
	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d / %d", m.step, m.params.Steps)) + "\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.4f", t)) + "\n")
	s.WriteString(MetricLabel.Render("Steps/frame") + MetricValue.Render(fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")
	st := m.displayed().Stats()
	s.WriteString(MetricLabel.Render("Range") + MetricValue.Render(fmt.Sprintf("%.3f .. %.3f", st.Min, st.Max)) + "\n")

	if len(m.meanHistory) > 1 {
		chart := asciigraph.Plot(m.meanHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("mean U"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(Subtle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-4s %.4g", k, m.values[k])
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	} else if m.note != "" {
		s.WriteString("\n" + Subtle.Render(m.note) + "\n")
	}

	s.WriteString(KeyHint.Render("SP:Pause N:Step R:Reset Q:Quit\nTab/↑↓:Tune +/-:Speed\nV:Field P:Palette G:Record"))
	return lipgloss.JoinHorizontal(lipgloss.Top, fieldView, Panel.Render(s.String()))
}
