// Package welcome is the splash shown at startup.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 300 * time.Millisecond
	taglineAt    = 900 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen animates the banner and then replaces itself with home.
// A key press skips the rest of the animation.
type WelcomeScreen struct {
	homeFactory func() screen.Screen
	// examDays is the number of days until the exam, or -1 when unknown.
	examDays     int
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that hands over to homeFactory(). examDays < 0
// hides the exam countdown.
func New(homeFactory func() screen.Screen, examDays int) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory, examDays: examDays}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		w.tickCount++
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		banner := RenderBanner(width)
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		sections = append(sections, s+"  "+strings.TrimPrefix(banner, "\n"), "")
	}

	if w.elapsed >= taglineAt {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("FP技能検定 過去問ドリル"))
		if line := countdown(w.examDays); line != "" {
			sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Accent).Render(line))
		}
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("何かキーを押すと始まります"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func countdown(days int) string {
	switch {
	case days < 0:
		return ""
	case days == 0:
		return "今日は試験日です。がんばって!"
	default:
		return fmt.Sprintf("試験まであと %d 日", days)
	}
}
