package viz

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	gifPath         = "sphfluid.gif"
	maxGIFFrames    = 600
)

type TickMsg time.Time

// Model is the live fluid view. Every mutation (add, remove, dam, params)
// happens in Update, so a step never sees a half-applied change.
type Model struct {
	cfg           *config.Config
	fluid         *sph.Simulation
	view          Viewport
	width, height int
	canvas        *Canvas
	running       bool
	dam           bool
	damBreak      int
	added         int
	params        map[string]float64
	paramKeys     []string
	selected      int
	energyHistory []float64
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	status        string
}

// NewModel builds a fluid from cfg. The config is kept for resets.
func NewModel(cfg *config.Config) (Model, error) {
	fluid, err := experiment.Build(cfg)
	if err != nil {
		return Model{}, err
	}

	params := cfg.Physics.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		cfg:           cfg,
		fluid:         fluid,
		view:          ViewportFor(cfg.Physics),
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		dam:           cfg.Run.Dam,
		damBreak:      cfg.Run.DamBreak,
		params:        params,
		paramKeys:     keys,
		energyHistory: make([]float64, 0, historyCapacity),
	}, nil
}

// Fluid exposes the running simulation.
func (m Model) Fluid() *sph.Simulation { return m.fluid }

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.toggleRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "a":
			m.addParticle()
		case "x":
			m.removeParticle()
		case "b":
			m.toggleDam()
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			CurrentTheme = NextTheme(CurrentTheme.Name)
		case ".":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recording {
			m.draw()
			m.frames = append(m.frames, CaptureFrame(m.canvas))
			if len(m.frames) >= maxGIFFrames {
				m.toggleRecording()
			}
		}
		return m, tick()
	}
	return m, nil
}

// addParticle drops a particle just below the top of the container. The
// horizontal offset cycles so repeated drops do not stack on one point.
func (m *Model) addParticle() {
	p := m.fluid.Params()
	offset := float64(m.added%7-3) * p.InteractionRadius * 0.2
	top := p.BoundaryCenter.Y + p.BoundaryRadius*0.85
	m.fluid.Add(sph.NewParticle(p.BoundaryCenter.X+offset, top, p.Gravity))
	m.added++
}

func (m *Model) removeParticle() {
	if m.fluid.Len() == 0 {
		return
	}
	_ = m.fluid.Remove(m.fluid.Len() - 1)
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected parameter. Values that would make the
// parameter set invalid are refused and reported in the status line.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor
	if newVal == 0 {
		newVal = 1e-6 * factor
	}

	p := m.fluid.Params()
	if err := p.SetParam(key, newVal); err != nil {
		m.status = err.Error()
		return
	}
	if err := p.Validate(); err != nil {
		m.status = err.Error()
		return
	}
	m.fluid.SetParams(p)
	m.params[key] = newVal
	m.view = ViewportFor(p)
	m.status = ""
}

// toggleDam raises or lowers the dam. A raised dam holds for the
// configured dam_break frames and then breaks on its own.
func (m *Model) toggleDam() {
	m.dam = !m.dam
	if m.dam {
		m.damBreak = m.fluid.Frame() + m.cfg.Run.DamBreak
	}
}

func (m *Model) step() {
	run := sim.Config{Dam: m.dam, DamBreak: m.damBreak}
	if m.dam && !run.DamActive(m.fluid.Frame()) {
		m.dam = false
		m.status = "dam broke"
	}
	m.fluid.Step(m.dam)

	m.energyHistory = append(m.energyHistory, metrics.Kinetic(m.fluid.Particles()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// reset rebuilds the fluid from the starting configuration.
func (m *Model) reset() {
	fluid, err := experiment.Build(m.cfg)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.fluid = fluid
	m.dam = m.cfg.Run.Dam
	m.damBreak = m.cfg.Run.DamBreak
	m.added = 0
	m.params = m.cfg.Physics.GetParams()
	m.view = ViewportFor(m.cfg.Physics)
	m.energyHistory = m.energyHistory[:0]
	m.status = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		return
	}
	if err := SaveGIF(gifPath, m.frames, 2); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	}
	m.recording = false
	m.frames = nil
}

// draw renders the boundary circle and every visual position.
func (m *Model) draw() {
	m.canvas.Clear()
	p := m.fluid.Params()
	m.view.Circle(m.canvas, p.BoundaryCenter, p.BoundaryRadius, 64)
	if m.dam {
		if top, bottom, ok := experiment.DamSegment(m.cfg.Run.DamX, p); ok {
			x0, y0 := m.view.ToPixel(m.canvas, top)
			x1, y1 := m.view.ToPixel(m.canvas, bottom)
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, pt := range m.fluid.Particles() {
		m.view.Plot(m.canvas, pt.VisualPosition)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	st := newStyles(CurrentTheme)
	m.draw()
	canvasView := st.canvas.Render(st.particles.Render(m.canvas.String()))

	var s strings.Builder
	name := m.cfg.Name
	if name == "" {
		name = "fluid"
	}
	s.WriteString(st.header.Render(strings.ToUpper(name)) + "\n")

	switch {
	case m.recording:
		s.WriteString(st.recording.Render(fmt.Sprintf("● REC %d", len(m.frames))))
	case m.running:
		s.WriteString(st.running.Render(AnimatedSpinner(m.fluid.Frame()) + " RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	if m.dam {
		s.WriteString("  " + st.activeParam.Render("DAM"))
	}
	s.WriteString("\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.SparklineChart(m.energyHistory, 30) + "\n\n")

	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	density, compress := m.densityStats()
	s.WriteString(st.label.Render("Frame") + st.value.Render(fmt.Sprintf("%d", m.fluid.Frame())) + "\n")
	s.WriteString(st.label.Render("Particles") + st.value.Render(fmt.Sprintf("%d", m.fluid.Len())) + "\n")
	s.WriteString(st.label.Render("Energy") + st.value.Render(fmt.Sprintf("%.4g", energy)) + "\n")
	s.WriteString(st.label.Render("Density") + st.value.Render(fmt.Sprintf("%.3f", density)) + "\n")
	s.WriteString(st.label.Render("Compress") + st.ProgressBar(compress, 16) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-16s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(st.activeParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + st.paused.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render(st.Separator(30) + "\nSP:Pause A:Add X:Remove B:Dam\nR:Reset T:Theme G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  .        - Single step when paused  ║
║  A        - Add a particle           ║
║  X        - Remove last particle     ║
║  B        - Toggle dam               ║
║  R        - Reset simulation         ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// densityStats returns the mean density and how far the densest particle
// is over rest density, as a ratio in [0, 1] for the compression bar.
func (m Model) densityStats() (mean, compression float64) {
	ps := m.fluid.Particles()
	if len(ps) == 0 {
		return 0, 0
	}
	maxRho := 0.0
	for _, p := range ps {
		mean += p.Density
		maxRho = math.Max(maxRho, p.Density)
	}
	mean /= float64(len(ps))
	rest := m.fluid.Params().RestDensity
	if rest <= 0 {
		return mean, 0
	}
	return mean, math.Min(1, math.Max(0, maxRho/rest-1))
}
