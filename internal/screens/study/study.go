// Package study is the question-answering screen.
package study

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	"github.com/fpdrill/fpdrill/internal/screens/summary"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/session"
	"github.com/fpdrill/fpdrill/internal/store"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
)

type mode int

const (
	modeLoading mode = iota
	modeQuestion
	modeFeedback
	modeNotes
	modeQuitConfirm
	modeEmpty
	modeError
)

type sessionReadyMsg struct {
	Session *session.Session
	Err     error
}

// StudyScreen runs one session: it selects the batch on Init, then serves
// each question, shows feedback and finally the summary.
type StudyScreen struct {
	eng *engine.Engine
	req selection.Request

	sess     *session.Session
	choice   components.MultiChoice
	notes    components.TextInput
	result   *session.Result
	progress store.Progress
	mode     mode
	errMsg   string
	flash    string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New creates a study screen for req.
func New(eng *engine.Engine, req selection.Request) *StudyScreen {
	return &StudyScreen{eng: eng, req: req}
}

func (s *StudyScreen) Init() tea.Cmd {
	eng, req := s.eng, s.req
	return func() tea.Msg {
		sess, err := eng.StartSession(context.Background(), req)
		return sessionReadyMsg{Session: sess, Err: err}
	}
}

func (s *StudyScreen) Title() string {
	return strategyTitle(s.req)
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeQuestion:
		return []layout.KeyHint{
			{Key: "1-9", Description: "回答"},
			{Key: "↑↓ Enter", Description: "選択"},
			{Key: "s", Description: "スキップ"},
			{Key: "b", Description: "ブックマーク"},
			{Key: "Esc", Description: "終了"},
		}
	case modeFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "次へ"},
			{Key: "b", Description: "ブックマーク"},
			{Key: "n", Description: "メモ"},
			{Key: "q", Description: "終了"},
		}
	case modeNotes:
		return []layout.KeyHint{
			{Key: "Enter", Description: "保存"},
			{Key: "Esc", Description: "キャンセル"},
		}
	case modeQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "終了する"},
			{Key: "N", Description: "続ける"},
		}
	}
	return []layout.KeyHint{{Key: "any key", Description: "戻る"}}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		return s.handleReady(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	if s.mode == modeNotes {
		var cmd tea.Cmd
		s.notes, cmd = s.notes.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudyScreen) handleReady(msg sessionReadyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case msg.Err != nil:
		s.mode = modeError
		s.errMsg = msg.Err.Error()
	case msg.Session.Len() == 0:
		s.mode = modeEmpty
	default:
		s.sess = msg.Session
		s.showQuestion()
	}
	return s, nil
}

func (s *StudyScreen) showQuestion() {
	q, _ := s.sess.Current()
	s.choice = components.NewMultiChoice(q.Options)
	s.result = nil
	s.flash = ""
	s.mode = modeQuestion
	p, err := s.eng.Mastery.Get(context.Background(), q.ID)
	if err != nil {
		s.progress = store.Progress{QuestionID: q.ID}
		s.flash = "学習記録を読み込めませんでした: " + err.Error()
		return
	}
	s.progress = p
}

func (s *StudyScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeLoading:
		return s, nil

	case modeEmpty, modeError:
		return s, pop

	case modeQuitConfirm:
		switch key {
		case "y", "Y":
			return s.finish()
		case "n", "N", "esc":
			s.mode = modeQuestion
			if s.result != nil {
				s.mode = modeFeedback
			}
		}
		return s, nil

	case modeNotes:
		switch key {
		case "enter":
			return s.saveNotes()
		case "esc":
			s.mode = modeFeedback
			return s, nil
		}
		var cmd tea.Cmd
		s.notes, cmd = s.notes.Update(msg)
		return s, cmd

	case modeFeedback:
		switch key {
		case "enter", "space", "right", "l":
			return s.advance()
		case "b":
			return s.toggleBookmark()
		case "n":
			s.notes = components.NewTextInput("メモ:", "この問題についてのメモ", s.progress.Notes)
			s.mode = modeNotes
			return s, nil
		case "q", "esc":
			s.mode = modeQuitConfirm
		}
		return s, nil
	}

	// modeQuestion
	switch key {
	case "esc", "q":
		s.mode = modeQuitConfirm
		return s, nil
	case "b":
		return s.toggleBookmark()
	case "s":
		return s.advance()
	}
	var chosen int
	s.choice, chosen = s.choice.Update(msg)
	if chosen >= 0 {
		return s.submit(chosen)
	}
	return s, nil
}

func (s *StudyScreen) submit(choice int) (screen.Screen, tea.Cmd) {
	res, err := s.sess.Answer(context.Background(), choice)
	if err != nil {
		if errors.Is(err, session.ErrAlreadyAnswered) {
			return s, nil
		}
		s.mode = modeError
		s.errMsg = err.Error()
		return s, nil
	}
	s.result = &res
	s.progress = res.Progress
	s.choice.Reveal(choice, res.CorrectAnswer)
	s.mode = modeFeedback
	return s, nil
}

func (s *StudyScreen) advance() (screen.Screen, tea.Cmd) {
	if !s.sess.Next() {
		return s.finish()
	}
	s.showQuestion()
	return s, nil
}

func (s *StudyScreen) toggleBookmark() (screen.Screen, tea.Cmd) {
	q, ok := s.sess.Current()
	if !ok {
		return s, nil
	}
	on, err := s.eng.Mastery.ToggleBookmark(context.Background(), q.ID)
	if err != nil {
		s.flash = "ブックマークを保存できませんでした: " + err.Error()
		return s, nil
	}
	s.progress.IsBookmarked = on
	if on {
		s.flash = "★ ブックマークしました"
	} else {
		s.flash = "ブックマークを外しました"
	}
	return s, nil
}

func (s *StudyScreen) saveNotes() (screen.Screen, tea.Cmd) {
	q, _ := s.sess.Current()
	text := s.notes.Value()
	if err := s.eng.Mastery.SetNotes(context.Background(), q.ID, text); err != nil {
		s.flash = "メモを保存できませんでした: " + err.Error()
	} else {
		s.progress.Notes = text
		s.flash = "メモを保存しました"
	}
	s.mode = modeFeedback
	return s, nil
}

func (s *StudyScreen) finish() (screen.Screen, tea.Cmd) {
	ctx := context.Background()
	sum, day, err := s.sess.Finish(ctx)
	if err != nil {
		s.mode = modeError
		s.errMsg = err.Error()
		return s, nil
	}

	var notices []string
	goal := 0
	if st, err := s.eng.Settings.Load(ctx); err != nil {
		notices = append(notices, "設定を読み込めませんでした: "+err.Error())
	} else {
		goal = st.DailyGoal
	}
	status := screen.StatusMsg{Status: layout.Status{Solved: day.QuestionsSolved, DailyGoal: goal}}
	if o, err := s.eng.Stats.OverallStats(ctx); err != nil {
		notices = append(notices, "統計を読み込めませんでした: "+err.Error())
	} else {
		status.Streak = o.CurrentStreak
	}

	next := summary.New(sum, day, goal, s.sess.Results(), s.sess.Questions()).
		WithNotice(strings.Join(notices, "\n"))
	return s, tea.Batch(
		func() tea.Msg { return status },
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

func pop() tea.Msg { return router.PopScreenMsg{} }
