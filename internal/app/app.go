// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	"github.com/fpdrill/fpdrill/internal/screens/home"
	"github.com/fpdrill/fpdrill/internal/screens/study"
	"github.com/fpdrill/fpdrill/internal/screens/welcome"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/settings"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// Options configures the terminal UI.
type Options struct {
	Engine *engine.Engine

	// Count is the number of questions per session.
	Count int

	// SkipSplash starts directly on the home screen.
	SkipSplash bool

	// Study, when set, opens a session for this selection on top of the
	// home screen. It implies SkipSplash.
	Study *selection.Request
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	initCmd tea.Cmd
	status  layout.Status
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen { return home.New(opts.Engine, opts.Count) }

	var first screen.Screen
	if opts.SkipSplash || opts.Study != nil {
		first = homeFactory()
	} else {
		days := -1
		if st, err := opts.Engine.Settings.Load(context.Background()); err == nil {
			if d, ok := settings.DaysUntilExam(st, time.Now()); ok {
				days = d
			}
		}
		first = welcome.New(homeFactory, days)
	}

	m := AppModel{router: router.New(first), initCmd: first.Init()}
	if opts.Study != nil {
		req := *opts.Study
		if req.Count <= 0 && !req.Strategy.WholeSet() {
			req.Count = opts.Count
		}
		m.initCmd = tea.Batch(m.initCmd, m.router.Push(study.New(opts.Engine, req)))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.StatusMsg:
		m.status = msg.Status
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "終了"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the terminal UI and blocks until the user quits. The palette
// follows the theme setting.
func Run(opts Options) error {
	if st, err := opts.Engine.Settings.Load(context.Background()); err == nil {
		theme.Use(st.Theme)
	}

	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
