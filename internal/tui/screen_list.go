package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/router"
	"github.com/maynagashev/gophcatalog/models"
)

// enterProductListScreen открывает список и запускает первичную загрузку.
func (m *model) enterProductListScreen() tea.Cmd {
	m.state = productListScreen
	m.searchInput.Reset()
	m.lastKeyword = ""
	m.listErr = nil

	if !m.syncToken() {
		m.listStatus = statusError
		m.listErr = errNotAuthenticated
		m.productList.SetItems([]list.Item{})
		slog.Warn("Список товаров недоступен без токена")
		return m.setStatusMessage("Войдите, чтобы просматривать товары")
	}

	m.listStatus = statusLoading
	return tea.Batch(m.searchInput.Focus(), m.loadProductsCmd(""))
}

// updateProductListScreen обрабатывает клавиши экрана списка.
// Навигационные клавиши уходят списку, остальные полю поиска.
func (m *model) updateProductListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyUp, keyDown, keyPgUp, keyPgDown:
		var cmd tea.Cmd
		m.productList, cmd = m.productList.Update(msg)
		return m, cmd

	case keyEnter:
		item, ok := m.productList.SelectedItem().(productItem)
		if !ok {
			return m, nil
		}
		return m, m.navigate(m.router.ProductPath(item.product.ID))

	case keyAdd:
		return m, m.openAddOverlay()

	case keyEsc:
		if !m.session.HasToken() {
			return m, m.navigate(router.PathLogin)
		}
		return m, nil
	}

	prev := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == prev {
		return m, cmd
	}

	// Новый ввод отменяет ранее запланированный поиск
	m.searchSeq++
	return m, tea.Batch(cmd, scheduleSearchCmd(m.searchDelay, m.searchSeq, m.searchInput.Value()))
}

// handleSearchTick запускает поиск, если таймер не был отменен новым вводом.
func (m *model) handleSearchTick(msg searchTickMsg) tea.Cmd {
	if msg.seq != m.searchSeq || m.state != productListScreen {
		slog.Debug("Устаревший таймер поиска", "seq", msg.seq, "current", m.searchSeq)
		return nil
	}

	keyword := strings.TrimSpace(msg.keyword)
	if !m.syncToken() {
		m.listStatus = statusError
		m.listErr = errNotAuthenticated
		return m.setStatusMessage("Войдите, чтобы искать товары")
	}

	slog.Debug("Поиск товаров", "keyword", keyword)
	m.lastKeyword = keyword
	m.listStatus = statusLoading
	return m.loadProductsCmd(keyword)
}

// handleProductsLoaded заменяет список ответом сервера.
// Ответы не упорядочиваются: побеждает пришедший последним.
func (m *model) handleProductsLoaded(msg productsLoadedMsg) tea.Cmd {
	if m.state != productListScreen {
		return nil
	}
	m.setProducts(msg.products)
	m.listStatus = statusReady
	m.listErr = nil
	slog.Debug("Список товаров загружен", "keyword", msg.keyword, "count", len(msg.products))
	return nil
}

// handleProductsLoadError переводит список в состояние ошибки.
func (m *model) handleProductsLoadError(msg ProductsLoadError) tea.Cmd {
	if m.state != productListScreen {
		return nil
	}
	slog.Error("Ошибка загрузки товаров", "keyword", msg.keyword, "error", msg.err)
	m.listStatus = statusError
	m.listErr = msg.err
	return m.setStatusMessage("Ошибка загрузки товаров: " + msg.Error())
}

// setProducts заменяет элементы списка.
func (m *model) setProducts(products []models.Product) {
	items := make([]list.Item, len(products))
	for i, p := range products {
		items[i] = productItem{product: p}
	}
	m.productList.SetItems(items)
	m.productList.Title = fmt.Sprintf("Товары (%d)", len(items))
}

// prependProduct добавляет товар в начало списка и выделяет его.
func (m *model) prependProduct(p models.Product) tea.Cmd {
	cmd := m.productList.InsertItem(0, productItem{product: p})
	m.productList.Select(0)
	m.productList.Title = fmt.Sprintf("Товары (%d)", len(m.productList.Items()))
	return cmd
}

// viewProductListScreen отображает поиск и список товаров.
func (m *model) viewProductListScreen() string {
	var b strings.Builder
	if sub := m.session.Subject(); sub != "" {
		b.WriteString(subtleStyle.Render("Пользователь: "+sub) + "\n")
	}
	b.WriteString(m.searchInput.View() + "\n\n")

	switch m.listStatus {
	case statusLoading:
		b.WriteString(labelStyle.Render("Загрузка...") + "\n")
	case statusError:
		b.WriteString(errorStyle.Render("Ошибка: "+errText(m.listErr)) + "\n")
		if !m.session.HasToken() {
			b.WriteString(subtleStyle.Render("Esc: перейти ко входу") + "\n")
		}
		return b.String()
	case statusIdle, statusReady:
	}

	if m.listStatus == statusReady && len(m.productList.Items()) == 0 {
		b.WriteString(subtleStyle.Render("Товары не найдены") + "\n")
		return b.String()
	}
	b.WriteString(m.productList.View())
	return b.String()
}
