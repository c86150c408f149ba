package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// == Глобальные сообщения (не зависят от экрана) ==
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		// Сочетание Ctrl+C всегда приводит к выходу
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case sessionCheckedMsg:
		return m, m.handleSessionChecked(msg)
	case SessionCheckError:
		return m, m.handleSessionCheckError(msg)

	case loginSuccessMsg:
		return m, m.handleLoginSuccess(msg)
	case LoginError:
		return m, m.handleLoginError(msg)
	case signupSuccessMsg:
		return m, m.handleSignupSuccess(msg)
	case SignupError:
		return m, m.handleSignupError(msg)

	case searchTickMsg:
		return m, m.handleSearchTick(msg)
	case productsLoadedMsg:
		return m, m.handleProductsLoaded(msg)
	case ProductsLoadError:
		return m, m.handleProductsLoadError(msg)

	case productLoadedMsg:
		return m, m.handleProductLoaded(msg)
	case ProductLoadError:
		return m, m.handleProductLoadError(msg)

	case productCreatedMsg:
		return m, m.handleProductCreated(msg)
	case ProductCreateError:
		return m, m.handleProductCreateError(msg)
	case productUpdatedMsg:
		return m, m.handleProductUpdated(msg)
	case ProductUpdateError:
		return m, m.handleProductUpdateError(msg)
	case productDeletedMsg:
		return m, m.handleProductDeleted(msg)
	case ProductDeleteError:
		return m, m.handleProductDeleteError(msg)
	}

	// == Обновление компонентов в зависимости от состояния ==
	switch m.state {
	case loginScreen:
		return m.updateLoginScreen(msg)
	case signupScreen:
		return m.updateSignupScreen(msg)
	case productListScreen:
		if m.overlay == overlayAdd {
			return m.updateAddOverlay(msg)
		}
		return m.updateProductListScreen(msg)
	case productDetailScreen:
		if m.overlay == overlayEdit {
			return m.updateEditOverlay(msg)
		}
		return m.updateProductDetailScreen(msg)
	default:
		slog.Warn("Неизвестное состояние экрана", "state", m.state)
		return m, nil
	}
}

// handleWindowSize обновляет размеры компонентов.
func (m *model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	h, v := m.docStyle.GetFrameSize()
	// Под списком остаются строки поиска, справки и статуса
	listHeight := msg.Height - v - helpStatusHeightOffset
	if listHeight < 1 {
		listHeight = 1
	}
	m.productList.SetSize(msg.Width-h, listHeight)
	m.searchInput.Width = msg.Width - h - inputOffset
}
