// internal/tui/app.go
//
// The run view shown while the engine searches. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the engine's state (running, output so far, exit error)
// 2. Update: engine output and key presses arrive as messages
// 3. View: header, scrolling output, run journal tail, footer

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/searchbridge/internal/logbook"
)

const (
	outputBuffer   = 256
	maxOutputLines = 2000
	journalLines   = 4
)

// Runner runs the engine, reporting every output line to onLine.
type Runner func(ctx context.Context, onLine func(string)) error

// Session describes the engine run being shown.
type Session struct {
	Engine  string
	File    string
	Command string
	Logbook *logbook.Logbook
}

type engineLineMsg string

type engineDoneMsg struct {
	err error
}

// App is the bubbletea model for one engine run.
type App struct {
	session Session
	run     Runner
	ctx     context.Context
	cancel  context.CancelFunc
	lines   chan string

	// finished closes once the runner has returned; detached closes when
	// the program is gone and nobody reads lines any more.
	finished chan struct{}
	detached chan struct{}
	result   error

	spinner  spinner.Model
	viewport viewport.Model
	output   []string
	width    int
	height   int

	started  time.Time
	elapsed  time.Duration
	done     bool
	canceled bool
	err      error
}

// NewApp builds the run view. The engine starts when the program does.
func NewApp(session Session, run Runner) *App {
	ctx, cancel := context.WithCancel(context.Background())
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	return &App{
		session:  session,
		run:      run,
		ctx:      ctx,
		cancel:   cancel,
		lines:    make(chan string, outputBuffer),
		finished: make(chan struct{}),
		detached: make(chan struct{}),
		spinner:  s,
		viewport: viewport.New(80, 12),
	}
}

// Err returns the engine's exit error once the run is over.
func (a *App) Err() error {
	return a.err
}

// Init is called once when the program starts. The engine starts here.
func (a *App) Init() tea.Cmd {
	a.started = time.Now()
	go a.runEngine()
	return tea.Batch(a.spinner.Tick, a.waitForEngine(), a.waitForLine())
}

func (a *App) runEngine() {
	defer close(a.finished)
	a.result = a.run(a.ctx, func(line string) {
		select {
		case a.lines <- line:
		case <-a.detached:
		}
	})
	close(a.lines)
}

func (a *App) waitForEngine() tea.Cmd {
	return func() tea.Msg {
		<-a.finished
		return engineDoneMsg{err: a.result}
	}
}

func (a *App) waitForLine() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-a.lines
		if !ok {
			return nil
		}
		return engineLineMsg(line)
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = max(20, msg.Width-4)
		a.viewport.Height = max(3, msg.Height-12)
		return a, nil

	case engineLineMsg:
		a.appendOutput(string(msg))
		return a, a.waitForLine()

	case engineDoneMsg:
		a.done = true
		a.err = msg.err
		a.elapsed = time.Since(a.started)
		a.cancel()
		if a.canceled {
			return a, tea.Quit
		}
		return a, nil

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if a.done {
				return a, tea.Quit
			}
			// Quit follows engineDoneMsg so the run is recorded first.
			a.canceled = true
			a.cancel()
			return a, nil
		case "q", "esc":
			if a.done {
				return a, tea.Quit
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a *App) appendOutput(line string) {
	a.output = append(a.output, line)
	if len(a.output) > maxOutputLines {
		a.output = a.output[len(a.output)-maxOutputLines:]
	}
	atBottom := a.viewport.AtBottom() || len(a.output) <= 1
	a.viewport.SetContent(strings.Join(a.output, "\n"))
	if atBottom {
		a.viewport.GotoBottom()
	}
}

// View renders the current state.
func (a *App) View() string {
	sections := []string{a.renderHeader(), a.renderOutput()}
	if panel := a.renderLogPanel(); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render(fmt.Sprintf("⬡ %s · %s", a.session.Engine, a.session.File))
	command := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Width(max(20, a.width)).
		Render(a.session.Command)
	return lipgloss.JoinVertical(lipgloss.Left, title, command)
}

func (a *App) renderOutput() string {
	content := a.viewport.View()
	if len(a.output) == 0 {
		content = "Waiting for engine output..."
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(content)
}

func (a *App) renderLogPanel() string {
	lines, _ := a.session.Logbook.Tail(journalLines)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.session.Logbook.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return fmt.Sprintf("%s\n%s", head, body)
}

func (a *App) renderFooter() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	switch {
	case !a.done && a.canceled:
		return style.Foreground(lipgloss.Color("#FFB347")).Render(fmt.Sprintf("%s stopping %s...", a.spinner.View(), a.session.Engine))
	case !a.done:
		return style.Render(fmt.Sprintf("%s searching... (%d lines)   ↑/↓ scroll   ctrl+c abort", a.spinner.View(), len(a.output)))
	case a.canceled:
		return style.Foreground(lipgloss.Color("#FFB347")).Render("Aborted.   q quit")
	case a.err != nil:
		return style.Foreground(lipgloss.Color("#FF6B6B")).Render(fmt.Sprintf("✗ %s failed: %v   q quit", a.session.Engine, a.err))
	default:
		return style.Foreground(lipgloss.Color("#7BD88F")).Render(fmt.Sprintf("✓ %s finished in %s   q quit", a.session.Engine, a.elapsed.Round(time.Second)))
	}
}

// Run starts the program and blocks until the user quits and the engine
// has returned. The engine's exit error is returned.
func Run(session Session, run Runner) error {
	app := NewApp(session, run)
	return app.execute(tea.NewProgram(app, tea.WithAltScreen()))
}

func (a *App) execute(p *tea.Program) error {
	_, err := p.Run()
	a.shutdown()
	if err != nil {
		return err
	}
	if !a.done {
		a.err = a.result
	}
	if a.canceled && a.err == nil {
		return context.Canceled
	}
	return a.err
}

// shutdown stops the engine if it is still running and waits for the
// runner to return.
func (a *App) shutdown() {
	a.cancel()
	close(a.detached)
	if !a.started.IsZero() {
		<-a.finished
	}
}
