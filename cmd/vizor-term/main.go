// Package main is a terminal preview of the Vizor spectrum pipeline.
//
// It runs the same synthetic source and bar pipeline as the desktop app and
// renders the bars as a Bubble Tea program, which makes the analysis stage
// easy to eyeball over SSH or in CI logs.
//
// Build:
//
//	go build -o build/vizor-term ./cmd/vizor-term
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/soundweaver/vizor/internal/adapter/audio/synth"
	"github.com/soundweaver/vizor/internal/spectrum"
)

const (
	barCount = 48
	fps      = 30

	// Smoothing factor matching the desktop renderers in normal mode.
	smoothing = 0.55
)

// Cell glyphs from empty to full, used for the fractional bar tip.
var tipGlyphs = []rune(" ▁▂▃▄▅▆▇█")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	footerStyle = lipgloss.NewStyle().Faint(true)

	// Zone colors match the LED bars style: green, yellow, red.
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	midStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model drives the terminal visualization. Bar heights are animated with a
// spring on top of the pipeline's exponential smoothing, which gives the
// terminal bars the same settle-and-decay feel as the pixel styles.
type model struct {
	source *synth.Engine
	proc   *spectrum.Processor

	spring harmonica.Spring
	pos    []float64
	vel    []float64

	width  int
	height int
	err    error
}

func newModel() model {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	return model{
		source: synth.NewEngine(log),
		proc:   spectrum.NewProcessor(log),
		spring: harmonica.NewSpring(harmonica.FPS(fps), 7.0, 0.6),
		pos:    make([]float64, barCount),
		vel:    make([]float64, barCount),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		frame, err := m.source.Frame()
		if err != nil {
			m.err = err
			return m, tea.Quit
		}

		bars := m.proc.Prepare(frame, barCount, smoothing)
		for i, target := range bars {
			m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], target)
		}

		return m, tick()
	}

	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("spectrum source failed: %v\n", m.err)
	}
	if m.width == 0 || m.height < 4 {
		return "terminal too small"
	}

	rows := m.height - 3 // title and footer
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vizor"))
	b.WriteByte('\n')

	// Top row first; each bar occupies one column.
	for row := rows - 1; row >= 0; row-- {
		for i := 0; i < barCount && i < m.width; i++ {
			level := m.pos[i]
			if level < 0 {
				level = 0
			} else if level > 1 {
				level = 1
			}

			cells := level * float64(rows)
			glyph := " "
			if cells >= float64(row+1) {
				glyph = string(tipGlyphs[len(tipGlyphs)-1])
			} else if cells > float64(row) {
				frac := cells - float64(row)
				glyph = string(tipGlyphs[int(frac*float64(len(tipGlyphs)-1))])
			}

			b.WriteString(zoneStyle(float64(row) / float64(rows)).Render(glyph))
		}
		b.WriteByte('\n')
	}

	b.WriteString(footerStyle.Render("q: quit"))

	return b.String()
}

// zoneStyle picks the color band for a row by its height ratio.
func zoneStyle(ratio float64) lipgloss.Style {
	switch {
	case ratio >= 0.75:
		return highStyle
	case ratio >= 0.4:
		return midStyle
	default:
		return lowStyle
	}
}

func main() {
	m := newModel()
	defer m.source.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
