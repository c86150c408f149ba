package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/schema"
)

var errImagePathEmpty = errors.New("укажите путь к файлу")

// openAddOverlay открывает форму создания товара поверх списка.
func (m *model) openAddOverlay() tea.Cmd {
	if !m.syncToken() {
		return m.setStatusMessage("Войдите, чтобы добавлять товары")
	}
	if m.addForm.submitting {
		return m.setStatusMessage("Предыдущее сохранение еще выполняется")
	}
	m.overlay = overlayAdd
	m.addForm.reset()
	m.addImages = nil
	m.imageInputError = nil
	m.imageFocused = false
	m.imagePathInput.Reset()
	m.imagePathInput.Blur()
	m.searchInput.Blur()
	return textinput.Blink
}

// closeAddOverlay закрывает форму создания и возвращает фокус поиску.
func (m *model) closeAddOverlay() tea.Cmd {
	m.overlay = overlayNone
	m.imagePathInput.Blur()
	return m.searchInput.Focus()
}

// updateAddOverlay обрабатывает ввод в форме создания товара.
func (m *model) updateAddOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateAddFocused(msg)
	}

	switch keyMsg.String() {
	case keyEsc:
		return m, m.closeAddOverlay()
	case keyTab, keyDown:
		return m, m.addFocusNext()
	case keyShiftTab, keyUp:
		return m, m.addFocusPrev()
	case keyEnter:
		if m.imageFocused {
			if strings.TrimSpace(m.imagePathInput.Value()) != "" {
				return m, m.addImageFromPath()
			}
			return m, m.submitAdd()
		}
		return m, m.addFocusNext()
	case keyAddImage:
		return m, m.addImageFromPath()
	case keyDropLast:
		m.dropLastImage()
		return m, nil
	case keySubmit:
		return m, m.submitAdd()
	}
	return m, m.updateAddFocused(msg)
}

// updateAddFocused передает сообщение активному полю.
func (m *model) updateAddFocused(msg tea.Msg) tea.Cmd {
	if m.imageFocused {
		var cmd tea.Cmd
		m.imagePathInput, cmd = m.imagePathInput.Update(msg)
		return cmd
	}
	return m.addForm.update(msg)
}

// addFocusNext переводит фокус вперед. После последнего поля идет путь к изображению.
func (m *model) addFocusNext() tea.Cmd {
	switch {
	case m.imageFocused:
		m.imageFocused = false
		m.imagePathInput.Blur()
		return m.addForm.focus(0)
	case m.addForm.onLast():
		m.addForm.blur()
		m.imageFocused = true
		return m.imagePathInput.Focus()
	default:
		return m.addForm.next()
	}
}

// addFocusPrev переводит фокус назад.
func (m *model) addFocusPrev() tea.Cmd {
	switch {
	case m.imageFocused:
		m.imageFocused = false
		m.imagePathInput.Blur()
		return m.addForm.focus(len(m.addForm.inputs) - 1)
	case m.addForm.focused == 0:
		m.addForm.blur()
		m.imageFocused = true
		return m.imagePathInput.Focus()
	default:
		return m.addForm.prev()
	}
}

// addImageFromPath читает файл по введенному пути и прикладывает его к товару.
// Размер и тип проверяются при отправке формы.
func (m *model) addImageFromPath() tea.Cmd {
	path := strings.TrimSpace(m.imagePathInput.Value())
	if path == "" {
		m.imageInputError = errImagePathEmpty
		return nil
	}
	img, err := schema.LoadImage(path)
	if err != nil {
		slog.Warn("Не удалось загрузить изображение", "path", path, "error", err)
		m.imageInputError = err
		return nil
	}
	m.imageInputError = nil
	m.addImages = append(m.addImages, img)
	m.imagePathInput.Reset()
	slog.Debug("Изображение добавлено", "name", img.Name, "type", img.ContentType, "size", img.Size)
	return m.setStatusMessage("Изображение добавлено: " + img.Name)
}

// dropLastImage убирает последнее добавленное изображение.
func (m *model) dropLastImage() {
	if len(m.addImages) == 0 {
		return
	}
	m.addImages = m.addImages[:len(m.addImages)-1]
}

// submitAdd валидирует форму с изображениями и отправляет ее на сервер.
func (m *model) submitAdd() tea.Cmd {
	if m.addForm.submitting {
		return nil
	}
	m.addForm.err = nil

	input := schema.ProductForm{
		EditProductForm: schema.EditProductForm{
			Title:       m.addForm.value(schema.FieldTitle),
			ProductTag:  m.addForm.value(schema.FieldProductTag),
			Dealer:      m.addForm.value(schema.FieldDealer),
			Description: m.addForm.value(schema.FieldDescription),
			Company:     m.addForm.value(schema.FieldCompany),
		},
		Images: m.addImages,
	}
	if !m.addForm.applyValidation(schema.Validate(input)) {
		slog.Debug("Форма товара не прошла валидацию", "fields", m.addForm.errors)
		return nil
	}
	if !m.syncToken() {
		m.addForm.err = errNotAuthenticated
		return m.setStatusMessage("Ошибка: " + errNotAuthenticated.Error())
	}

	m.addForm.submitting = true
	return tea.Batch(m.createProductCmd(input.Input(), m.addImages), m.setStatusMessage("Сохранение товара..."))
}

// handleProductCreated добавляет товар в начало списка без повторной загрузки.
func (m *model) handleProductCreated(msg productCreatedMsg) tea.Cmd {
	defer func() { m.addForm.submitting = false }()

	slog.Info("Товар создан", "id", msg.product.ID)
	if m.state != productListScreen {
		return m.setStatusMessage("Товар добавлен")
	}
	cmd := m.prependProduct(msg.product)
	m.listStatus = statusReady
	m.listErr = nil
	m.addForm.reset()
	m.addImages = nil
	return tea.Batch(cmd, m.closeAddOverlay(), m.setStatusMessage("Товар добавлен"))
}

// handleProductCreateError оставляет форму открытой и показывает ошибку.
func (m *model) handleProductCreateError(msg ProductCreateError) tea.Cmd {
	defer func() { m.addForm.submitting = false }()

	slog.Error("Ошибка создания товара", "error", msg.err)
	m.addForm.err = msg.err
	return m.setStatusMessage("Ошибка создания товара: " + msg.Error())
}

// viewAddOverlay отображает форму создания товара.
func (m *model) viewAddOverlay() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Новый товар") + "\n\n")
	b.WriteString(m.addForm.view())

	b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("Изображения (%d/%d)", len(m.addImages), schema.MaxImages)) + "\n")
	for i, img := range m.addImages {
		b.WriteString(fmt.Sprintf("  %d. %s (%s, %d байт)\n", i+1, img.Name, dash(img.ContentType), img.Size))
	}
	b.WriteString(m.imagePathInput.View() + "\n")
	if m.imageInputError != nil {
		b.WriteString(errorStyle.Render(m.imageInputError.Error()) + "\n")
	}
	if msg, ok := m.addForm.errors[schema.FieldImages]; ok {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	return b.String()
}
