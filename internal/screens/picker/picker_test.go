package picker

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/store"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return engine.New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCategoriesDisableEmpty(t *testing.T) {
	p := Categories(testEngine(t), map[string]int{"tax-planning": 4}, 10)

	require.Len(t, p.menu.Items, 6)
	assert.Equal(t, 3, p.menu.Selected, "cursor starts on the only enabled category")
	assert.Equal(t, "4問", p.menu.Items[3].Detail)

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "タックス", push.Screen.Title())
}

func TestYears(t *testing.T) {
	p := Years(testEngine(t), []int{2024, 2023}, 10)
	assert.Equal(t, "年度別", p.Title())

	p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push := cmd().(router.PushScreenMsg)
	assert.Equal(t, "2023年度", push.Screen.Title())
}

func TestEscPops(t *testing.T) {
	p := Years(testEngine(t), nil, 10)
	assert.Contains(t, p.View(80, 24), "選べる項目がありません")

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
