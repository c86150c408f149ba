package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophcatalog/internal/schema"
)

// formField описывает поле формы. name совпадает с именем поля схемы.
type formField struct {
	name        string
	label       string
	placeholder string
	charLimit   int
	secret      bool
}

// form - набор полей ввода с фокусом, ошибками и флагом отправки.
type form struct {
	fields     []formField
	inputs     []textinput.Model
	focused    int
	errors     map[string]string // Ошибки валидации по полям
	err        error             // Ошибка сервера
	submitting bool
}

//nolint:gochecknoglobals // Стили формы
var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
)

func newForm(fields ...formField) form {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = f.charLimit
		ti.Width = initFieldWidth
		if f.secret {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	f := form{fields: fields, inputs: inputs}
	if len(inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// value возвращает значение поля. Пробелы по краям обрезаются у открытых полей.
func (f *form) value(name string) string {
	for i, field := range f.fields {
		if field.name == name {
			if field.secret {
				return f.inputs[i].Value()
			}
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

func (f *form) setValue(name, value string) {
	for i, field := range f.fields {
		if field.name == name {
			f.inputs[i].SetValue(value)
			return
		}
	}
}

// focus переводит фокус на поле с индексом idx.
func (f *form) focus(idx int) tea.Cmd {
	f.focused = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *form) next() tea.Cmd {
	return f.focus((f.focused + 1) % len(f.inputs))
}

func (f *form) prev() tea.Cmd {
	return f.focus((f.focused + len(f.inputs) - 1) % len(f.inputs))
}

func (f *form) onLast() bool {
	return f.focused == len(f.inputs)-1
}

// reset очищает значения, ошибки и флаг отправки.
func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.errors = nil
	f.err = nil
	f.submitting = false
	f.focus(0)
}

// applyValidation сохраняет ошибки валидации. Возвращает true, если форма корректна.
func (f *form) applyValidation(err error) bool {
	f.errors = nil
	if err == nil {
		return true
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		f.errors = ve.Fields
	} else {
		f.err = err
	}
	return false
}

// update передает сообщение активному полю.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// handleKeys обрабатывает Tab, Shift+Tab и Enter.
// Enter на последнем поле вызывает onSubmit.
// Возвращает команду и флаг, указывающий, была ли клавиша обработана.
func (f *form) handleKeys(keyMsg tea.KeyMsg, onSubmit func() tea.Cmd) (tea.Cmd, bool) {
	switch keyMsg.String() {
	case keyTab, keyDown:
		return f.next(), true
	case keyShiftTab, keyUp:
		return f.prev(), true
	case keyEnter:
		if !f.onLast() {
			return f.next(), true
		}
		return onSubmit(), true
	case keySubmit:
		return onSubmit(), true
	default:
		return nil, false
	}
}

// view отображает поля с подписями и ошибками под ними.
func (f *form) view() string {
	var b strings.Builder
	for i, field := range f.fields {
		b.WriteString(labelStyle.Render(field.label) + "\n")
		b.WriteString(f.inputs[i].View() + "\n")
		if msg, ok := f.errors[field.name]; ok {
			b.WriteString(errorStyle.Render(msg) + "\n")
		}
	}
	if f.err != nil {
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+f.err.Error()) + "\n")
	}
	if f.submitting {
		b.WriteString("\n" + labelStyle.Render("Отправка...") + "\n")
	}
	return b.String()
}
