// Package tui runs a scene interactively in the terminal. Space toggles
// the spawn trigger, which stands in for a held pointer button.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dropsim/internal/input"
	"github.com/san-kum/dropsim/internal/scene"
	"github.com/san-kum/dropsim/internal/viz"
)

const historyLen = 48

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type Model struct {
	scene    *scene.Scene
	canvas   *viz.CanvasRenderer
	trigger  *input.Toggle
	interval time.Duration

	paused  bool
	last    scene.FrameStats
	prev    time.Time
	history []float64
	err     error
}

func NewModel(s *scene.Scene, cols, rows int, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return Model{
		scene:    s,
		canvas:   viz.NewCanvasRenderer(cols, rows),
		trigger:  &input.Toggle{},
		interval: interval,
	}
}

func (m Model) Init() tea.Cmd { return tick(m.interval) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.trigger.Flip()
		case "p":
			m.paused = !m.paused
		}
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if m.paused {
			m.prev = now
			return m, tick(m.interval)
		}
		return m.frame(now)
	}
	return m, nil
}

func (m Model) frame(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := m.interval
	if !m.prev.IsZero() {
		elapsed = now.Sub(m.prev)
	}
	m.prev = now

	st, err := m.scene.Frame(scene.FrameInput{Trigger: m.trigger.Active(), Now: now, Elapsed: elapsed})
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.scene.Draw(m.canvas)
	m.last = st
	m.history = append(m.history, float64(st.Live))
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}
	return m, tick(m.interval)
}

// Err is the fatal frame error that ended the session, if any.
func (m Model) Err() error { return m.err }

func (m Model) View() string {
	var b strings.Builder

	status := viz.StatusIdle.Render("○ idle")
	switch {
	case !m.last.PrimaryAlive && m.last.Frame > 0:
		status = viz.StatusLost.Render("✕ primary lost")
	case m.trigger.Active():
		status = viz.StatusRaining.Render("● raining")
	}
	if m.paused {
		status += " " + viz.Subtle.Render("(paused)")
	}
	fmt.Fprintf(&b, "\n %s  %s  %s\n\n", viz.Title.Render(m.scene.Config().Name), status,
		viz.Subtle.Render(fmt.Sprintf("t=%.1fs", m.last.Time.Seconds())))

	b.WriteString(viz.Panel.Render(strings.Join(m.canvas.Canvas.Lines(), "\n")))
	b.WriteString("\n")

	fmt.Fprintf(&b, " %s  %s  %s  %s\n",
		viz.Metric("frame", m.last.Frame),
		viz.Metric("live", m.last.Live),
		viz.Metric("spawned", m.scene.Spawner().Spawned()),
		viz.Metric("reclaimed", m.last.Reclaimed))
	if len(m.history) > 1 {
		fmt.Fprintf(&b, " %s %s\n", viz.MetricLabel.Render("live"), viz.SparkHigh.Render(viz.Sparkline(m.history, historyLen)))
	}

	b.WriteString("\n" + viz.KeyHint.Render(" space rain  p pause  q quit") + "\n")
	return b.String()
}

// Run drives s until the user quits or ctx is cancelled.
func Run(ctx context.Context, s *scene.Scene, cols, rows int, interval time.Duration) error {
	p := tea.NewProgram(NewModel(s, cols, rows, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
