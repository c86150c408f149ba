package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/models"
)

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// --- Сессия --- //

type sessionCheckedMsg struct {
	active bool
}

// SessionCheckError сообщает об ошибке проверки сессии.
type SessionCheckError struct {
	err error
}

func (e SessionCheckError) Error() string { return e.err.Error() }
func (e SessionCheckError) Unwrap() error { return e.err }

// checkSessionCmd проверяет активность сохраненного токена.
func (m *model) checkSessionCmd() tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		active, err := client.Me(ctx)
		if err != nil {
			return SessionCheckError{err: err}
		}
		return sessionCheckedMsg{active: active}
	}
}

// --- Вход и регистрация --- //

type loginSuccessMsg struct {
	token string
}

// LoginError сообщает об ошибке входа.
type LoginError struct {
	err error
}

func (e LoginError) Error() string { return e.err.Error() }
func (e LoginError) Unwrap() error { return e.err }

// makeLoginCmd выполняет вход через API.
func (m *model) makeLoginCmd(req models.LoginRequest) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		token, err := client.Login(ctx, req)
		if err != nil {
			return LoginError{err: err}
		}
		return loginSuccessMsg{token: token}
	}
}

// Токен может отсутствовать: тогда пользователь входит вручную.
type signupSuccessMsg struct {
	token string
}

// SignupError сообщает об ошибке регистрации.
type SignupError struct {
	err error
}

func (e SignupError) Error() string { return e.err.Error() }
func (e SignupError) Unwrap() error { return e.err }

// makeSignupCmd выполняет регистрацию через API.
func (m *model) makeSignupCmd(req models.SignupRequest) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		token, err := client.Signup(ctx, req)
		if err != nil {
			return SignupError{err: err}
		}
		return signupSuccessMsg{token: token}
	}
}

// --- Список и поиск --- //

// searchTickMsg приходит по истечении задержки поиска.
type searchTickMsg struct {
	seq     int
	keyword string
}

// scheduleSearchCmd планирует поиск через задержку.
func scheduleSearchCmd(delay time.Duration, seq int, keyword string) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return searchTickMsg{seq: seq, keyword: keyword}
	})
}

type productsLoadedMsg struct {
	keyword  string
	products []models.Product
}

// ProductsLoadError сообщает об ошибке загрузки списка.
type ProductsLoadError struct {
	keyword string
	err     error
}

func (e ProductsLoadError) Error() string { return e.err.Error() }
func (e ProductsLoadError) Unwrap() error { return e.err }

// loadProductsCmd загружает список товаров.
func (m *model) loadProductsCmd(keyword string) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		products, err := client.ListProducts(ctx, keyword)
		if err != nil {
			return ProductsLoadError{keyword: keyword, err: err}
		}
		return productsLoadedMsg{keyword: keyword, products: products}
	}
}

// --- Карточка товара --- //

type productLoadedMsg struct {
	id      int64
	details *models.ProductDetails
}

// ProductLoadError сообщает об ошибке загрузки товара.
type ProductLoadError struct {
	id  int64
	err error
}

func (e ProductLoadError) Error() string { return e.err.Error() }
func (e ProductLoadError) Unwrap() error { return e.err }

// loadProductCmd загружает товар и его изображения.
func (m *model) loadProductCmd(id int64) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		details, err := client.GetProduct(ctx, id)
		if err != nil {
			return ProductLoadError{id: id, err: err}
		}
		return productLoadedMsg{id: id, details: details}
	}
}

// --- Изменение товаров --- //

type productCreatedMsg struct {
	product models.Product
}

// ProductCreateError сообщает об ошибке создания товара.
type ProductCreateError struct {
	err error
}

func (e ProductCreateError) Error() string { return e.err.Error() }
func (e ProductCreateError) Unwrap() error { return e.err }

// createProductCmd создает товар с изображениями.
func (m *model) createProductCmd(input models.ProductInput, images []models.Image) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		product, err := client.CreateProduct(ctx, input, images)
		if err != nil {
			return ProductCreateError{err: err}
		}
		return productCreatedMsg{product: *product}
	}
}

type productUpdatedMsg struct {
	product models.Product
}

// ProductUpdateError сообщает об ошибке обновления товара.
type ProductUpdateError struct {
	err error
}

func (e ProductUpdateError) Error() string { return e.err.Error() }
func (e ProductUpdateError) Unwrap() error { return e.err }

// updateProductCmd обновляет поля товара.
func (m *model) updateProductCmd(id int64, input models.ProductInput) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		product, err := client.UpdateProduct(ctx, id, input)
		if err != nil {
			return ProductUpdateError{err: err}
		}
		return productUpdatedMsg{product: *product}
	}
}

type productDeletedMsg struct {
	id int64
}

// ProductDeleteError сообщает об ошибке удаления товара.
type ProductDeleteError struct {
	id  int64
	err error
}

func (e ProductDeleteError) Error() string { return e.err.Error() }
func (e ProductDeleteError) Unwrap() error { return e.err }

// deleteProductCmd удаляет товар.
func (m *model) deleteProductCmd(id int64) tea.Cmd {
	ctx, client := m.ctx, m.apiClient
	return func() tea.Msg {
		if err := client.DeleteProduct(ctx, id); err != nil {
			return ProductDeleteError{id: id, err: err}
		}
		return productDeletedMsg{id: id}
	}
}
