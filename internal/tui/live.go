package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravlens/internal/pipeline"
	"github.com/san-kum/gravlens/internal/raster"
)

const (
	thumbWidth  = 64
	thumbHeight = 28
	historyMax  = 240
)

// ramp runs from dark to bright.
var ramp = []rune(" .:-=+*#%@")

type frameMsg struct {
	index  int
	time   float64
	raw    float64
	lensed float64
	thumb  []string
	hidden int
}

type doneMsg struct{ err error }

type status int

const (
	statusRunning status = iota
	statusDone
	statusStopped
	statusFailed
)

type model struct {
	scenario string
	total    int
	cancel   context.CancelFunc

	status status
	err    error
	frame  frameMsg
	raw    []float64
	lensed []float64

	width  int
	height int
}

func newModel(scenario string, total int, cancel context.CancelFunc) model {
	return model{
		scenario: scenario,
		total:    total,
		cancel:   cancel,
		raw:      make([]float64, 0, historyMax),
		lensed:   make([]float64, 0, historyMax),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// the pipeline stops after its current frame
			m.cancel()
			if m.status == statusRunning {
				m.status = statusStopped
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = msg
		m.raw = appendBounded(m.raw, msg.raw)
		m.lensed = appendBounded(m.lensed, msg.lensed)
	case doneMsg:
		m.err = msg.err
		switch {
		case msg.err == nil:
			m.status = statusDone
		case m.status == statusStopped:
		default:
			m.status = statusFailed
		}
	}
	return m, nil
}

func appendBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyMax {
		s = s[1:]
	}
	return s
}

func (m model) View() string {
	var b strings.Builder

	icon, text := green.Render("●"), green.Render("running")
	switch m.status {
	case statusDone:
		icon, text = cyan.Render("●"), cyan.Render("done")
	case statusStopped:
		icon, text = yellow.Render("○"), yellow.Render("stopped")
	case statusFailed:
		icon, text = red.Render("✕"), red.Render("failed")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", icon, cyan.Render(m.scenario), text))

	done := m.frame.index + 1
	if len(m.raw) == 0 {
		done = 0
	}
	barWidth := 36
	filled := 0
	if m.total > 0 {
		filled = done * barWidth / m.total
	}
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(fmt.Sprintf("%d/%d frames", done, m.total))))

	for _, row := range m.frame.thumb {
		b.WriteString("   " + white.Render(row) + "\n")
	}

	if len(m.raw) > 1 {
		plot := asciigraph.PlotMany([][]float64{m.raw, m.lensed},
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Cyan),
			asciigraph.Caption("raw (green) / lensed (cyan)"),
		)
		b.WriteString("\n" + plot + "\n")
	}

	if len(m.raw) > 0 {
		b.WriteString(fmt.Sprintf("\n   %s %s  %s %s  %s %d\n",
			dim.Render("raw"), white.Render(fmt.Sprintf("%.1f", m.frame.raw)),
			dim.Render("lensed"), white.Render(fmt.Sprintf("%.1f", m.frame.lensed)),
			dim.Render("hidden"), m.frame.hidden))
	}
	if m.err != nil && m.status == statusFailed {
		b.WriteString("   " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dim.Render("   q stop") + "\n")
	return b.String()
}

// thumbnail maps img onto a w×h character grid by block-averaged
// luminance.
func thumbnail(img *raster.Image, w, h int) []string {
	w = min(w, img.Cols)
	h = min(h, img.Rows)
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		i0, i1 := y*img.Rows/h, (y+1)*img.Rows/h
		for x := 0; x < w; x++ {
			j0, j1 := x*img.Cols/w, (x+1)*img.Cols/w
			sum, n := 0.0, 0
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					c := img.At(i, j)
					sum += (c[0] + c[1] + c[2]) / 3
					n++
				}
			}
			lum := sum / float64(n) / 255
			k := int(lum * float64(len(ramp)-1))
			k = max(0, min(k, len(ramp)-1))
			sb.WriteRune(ramp[k])
		}
		rows[y] = sb.String()
	}
	return rows
}

func snapshot(f *pipeline.Frame) frameMsg {
	hidden := 0
	for _, v := range f.Visible {
		if !v {
			hidden++
		}
	}
	return frameMsg{
		index:  f.Index,
		time:   f.Time,
		raw:    f.RawBrightness,
		lensed: f.LensedBrightness,
		thumb:  thumbnail(f.Lensed, thumbWidth, thumbHeight),
		hidden: hidden,
	}
}

// Run drives the runner under a live view. Quitting the view cancels the
// run; the frames completed so far are returned with the cancellation
// error.
func Run(ctx context.Context, runner *pipeline.Runner, scenario string) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(scenario, len(runner.Scene().Times), cancel), tea.WithAltScreen())
	runner.AddObserver(pipeline.ObserverFunc(func(f *pipeline.Frame) {
		p.Send(snapshot(f))
	}))

	type outcome struct {
		res *pipeline.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := runner.Run(ctx)
		done <- outcome{res, err}
		p.Send(doneMsg{err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	cancel()
	out := <-done
	return out.res, out.err
}
