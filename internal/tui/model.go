package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/router"
	"github.com/maynagashev/gophcatalog/internal/session"
	"github.com/maynagashev/gophcatalog/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	loginScreen         screenState = iota // Экран входа ("/")
	signupScreen                           // Экран регистрации ("/signup")
	productListScreen                      // Список товаров ("/product")
	productDetailScreen                    // Карточка товара ("/product/{id}")
)

func (s screenState) String() string {
	switch s {
	case loginScreen:
		return "login"
	case signupScreen:
		return "signup"
	case productListScreen:
		return "product_list"
	case productDetailScreen:
		return "product_detail"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Модальные окна поверх экрана.
type overlayState int

const (
	overlayNone overlayState = iota
	overlayAdd               // Создание товара поверх списка
	overlayEdit              // Редактирование поверх карточки
)

// loadStatus - состояние загрузки данных экрана.
type loadStatus int

const (
	statusIdle loadStatus = iota
	statusLoading
	statusReady
	statusError
)

func (s loadStatus) String() string {
	return [...]string{"idle", "loading", "ready", "error"}[s]
}

// Константы для TUI.
const (
	defaultListWidth  = 80
	defaultListHeight = 20
	inputOffset       = 4

	searchDebounce = 500 * time.Millisecond // Задержка поиска после ввода

	keyEnter    = "enter"
	keyBack     = "b"
	keyEsc      = "esc"
	keyEdit     = "e"
	keyDelete   = "d"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keyPgUp     = "pgup"
	keyPgDown   = "pgdown"
	keySignup   = "ctrl+n"
	keyAdd      = "ctrl+n"
	keySubmit   = "ctrl+s"
	keyAddImage = "ctrl+o"
	keyDropLast = "ctrl+x"
)

var errNotAuthenticated = errors.New("пользователь не аутентифицирован")

// productItem представляет товар в списке.
// Реализует интерфейс list.Item.
type productItem struct {
	product models.Product
}

func (i productItem) Title() string { return dash(i.product.Title) }

func (i productItem) Description() string {
	return fmt.Sprintf("%s | Тег: %s | Компания: %s",
		dash(i.product.Description), dash(i.product.ProductTag), dash(i.product.Company))
}

func (i productItem) FilterValue() string { return i.product.Title }

// model представляет состояние TUI приложения.
type model struct {
	ctx       context.Context //nolint:containedctx // Контекст программы для запросов из tea.Cmd
	state     screenState
	overlay   overlayState
	route     router.Route
	router    *router.Router
	startPath string

	apiClient api.Client
	session   *session.Session
	serverURL string
	debugMode bool

	// Вход и регистрация
	loginForm  form
	signupForm form

	// Список товаров
	productList list.Model
	searchInput textinput.Model
	searchSeq   int           // Поколение отложенного поиска, устаревшие таймеры игнорируются
	searchDelay time.Duration // Задержка поиска
	listStatus  loadStatus
	listErr     error
	lastKeyword string

	// Карточка товара
	productID     int64
	product       *models.Product
	productImages []string
	detailStatus  loadStatus
	detailErr     error
	deleting      bool
	deleteErr     error

	// Оверлей создания товара
	addForm         form
	imagePathInput  textinput.Model
	imageFocused    bool
	addImages       []models.Image
	imageInputError error

	// Оверлей редактирования
	editForm form

	statusMessage string
	statusTimeout time.Duration
	width         int
	height        int
	helpTextMap   map[screenState]string
	docStyle      lipgloss.Style
}

// Сообщение для очистки статуса.
type clearStatusMsg struct{}
