//nolint:testpackage // Тесты в том же пакете для доступа к неэкспортируемым типам
package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophcatalog/internal/schema"
)

func TestNavigate_UnknownRoute(t *testing.T) {
	t.Run("Неизвестный маршрут", func(t *testing.T) {
		m := newTestModel(t, newMockClient(), "")
		start(t, m, "/unknown/page")

		assert.Equal(t, loginScreen, m.state)
		assert.Equal(t, "/", m.route.Path)
		assert.Contains(t, m.statusMessage, "Страница не найдена: /unknown/page")
	})
}

func TestNavigate_CancelsPendingSearch(t *testing.T) {
	t.Run("Смена экрана отменяет поиск", func(t *testing.T) {
		m := newTestModel(t, newMockClient(), "")
		seq := m.searchSeq
		_ = m.navigate("/signup")
		_ = m.navigate("/")
		assert.Equal(t, seq+2, m.searchSeq)
	})
}

func TestUpdate_GlobalMessages(t *testing.T) {
	t.Run("Глобальные сообщения", func(t *testing.T) {
		m := newTestModel(t, newMockClient(), "")

		_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		assert.Nil(t, cmd)
		assert.Equal(t, 120, m.width)
		assert.Equal(t, 40, m.height)

		m.statusMessage = "сообщение"
		_, _ = m.Update(clearStatusMsg{})
		assert.Empty(t, m.statusMessage)

		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestView_DebugPanel(t *testing.T) {
	t.Run("Отладочная панель", func(t *testing.T) {
		m := newTestModel(t, newMockClient(), "")
		start(t, m, "/")

		assert.NotContains(t, m.View(), "search seq")

		m.debugMode = true
		view := m.View()
		assert.Contains(t, view, "screen: login")
		assert.Contains(t, view, "server: http://catalog.test")
		assert.Contains(t, view, "token: false")
	})
}

func TestView_Help(t *testing.T) {
	t.Run("Подсказки", func(t *testing.T) {
		m := newTestModel(t, newMockClient(), "")
		start(t, m, "/")
		assert.Contains(t, m.View(), "Ctrl+N: регистрация")

		start(t, m, "/signup")
		assert.Contains(t, m.View(), "Esc: ко входу")
	})
}

func TestForm_Focus(t *testing.T) {
	f := initSignupForm()
	require.Equal(t, 0, f.focused)
	assert.True(t, f.inputs[0].Focused())

	tests := []struct {
		name     string
		key      tea.KeyMsg
		expected int
	}{
		{"Tab", tea.KeyMsg{Type: tea.KeyTab}, 1},
		{"Down", tea.KeyMsg{Type: tea.KeyDown}, 2},
		{"TabПоКругу", tea.KeyMsg{Type: tea.KeyTab}, 0},
		{"ShiftTabПоКругу", tea.KeyMsg{Type: tea.KeyShiftTab}, 2},
		{"Up", tea.KeyMsg{Type: tea.KeyUp}, 1},
		{"EnterНеНаПоследнем", tea.KeyMsg{Type: tea.KeyEnter}, 2},
	}
	for _, tt := range tests {
		submitted := false
		_, handled := f.handleKeys(tt.key, func() tea.Cmd { submitted = true; return nil })
		require.True(t, handled, tt.name)
		assert.Equal(t, tt.expected, f.focused, tt.name)
		assert.True(t, f.inputs[tt.expected].Focused(), tt.name)
		assert.False(t, submitted, tt.name)
	}

	submitted := false
	_, handled := f.handleKeys(tea.KeyMsg{Type: tea.KeyEnter}, func() tea.Cmd { submitted = true; return nil })
	assert.True(t, handled)
	assert.True(t, submitted)

	_, handled = f.handleKeys(keyRunes("a"), func() tea.Cmd { return nil })
	assert.False(t, handled)
}

func TestForm_Values(t *testing.T) {
	t.Run("Значения", func(t *testing.T) {
		f := initLoginForm()
		f.setValue(schema.FieldUsername, "  alice  ")
		f.setValue(schema.FieldPassword, " pass ")

		// Пароль не обрезается
		assert.Equal(t, "alice", f.value(schema.FieldUsername))
		assert.Equal(t, " pass ", f.value(schema.FieldPassword))
		assert.Empty(t, f.value("unknown"))

		assert.False(t, f.applyValidation(errors.New("сеть недоступна")))
		require.Error(t, f.err)
		assert.Empty(t, f.errors)

		assert.False(t, f.applyValidation(&schema.ValidationError{Fields: map[string]string{schema.FieldUsername: "ошибка"}}))
		assert.Equal(t, "ошибка", f.errors[schema.FieldUsername])
		assert.Contains(t, f.view(), "ошибка")

		f.submitting = true
		f.reset()
		assert.Empty(t, f.value(schema.FieldUsername))
		assert.Nil(t, f.errors)
		assert.NoError(t, f.err)
		assert.False(t, f.submitting)
	})
}

func TestProductItem(t *testing.T) {
	item := productItem{product: sampleProducts()[1]}
	assert.Equal(t, "Телефон", item.Title())
	assert.Equal(t, "- | Тег: tech | Компания: -", item.Description())
	assert.Equal(t, "Телефон", item.FilterValue())

	assert.Equal(t, "-", dash("  "))
	assert.Equal(t, "-", errText(nil))
}
