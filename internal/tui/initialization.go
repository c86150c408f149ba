package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophcatalog/internal/router"
	"github.com/maynagashev/gophcatalog/internal/schema"
)

// Константы, используемые при инициализации.
const (
	initPasswordCharLimit = 156
	initUserCharLimit     = 128
	initEmailCharLimit    = 254
	initTitleCharLimit    = 200
	initTagCharLimit      = 100
	initTextCharLimit     = 2000
	initPathCharLimit     = 4096
	initFieldWidth        = 50
)

// initLoginForm инициализирует форму входа.
func initLoginForm() form {
	return newForm(
		formField{name: schema.FieldUsername, label: "Имя пользователя", placeholder: "username", charLimit: initUserCharLimit},
		formField{name: schema.FieldPassword, label: "Пароль", placeholder: "Пароль", charLimit: initPasswordCharLimit, secret: true},
	)
}

// initSignupForm инициализирует форму регистрации.
func initSignupForm() form {
	return newForm(
		formField{name: schema.FieldUsername, label: "Имя пользователя", placeholder: "username", charLimit: initUserCharLimit},
		formField{name: schema.FieldEmail, label: "Электронная почта", placeholder: "user@example.com", charLimit: initEmailCharLimit},
		formField{name: schema.FieldPassword, label: "Пароль", placeholder: "Не менее 6 символов", charLimit: initPasswordCharLimit, secret: true},
	)
}

// productFields - поля товара, общие для создания и редактирования.
func productFields() []formField {
	return []formField{
		{name: schema.FieldTitle, label: "Название *", placeholder: "Название товара", charLimit: initTitleCharLimit},
		{name: schema.FieldProductTag, label: "Тег *", placeholder: "Тег товара", charLimit: initTagCharLimit},
		{name: schema.FieldDealer, label: "Дилер", placeholder: "Дилер", charLimit: initTitleCharLimit},
		{name: schema.FieldDescription, label: "Описание", placeholder: "Описание", charLimit: initTextCharLimit},
		{name: schema.FieldCompany, label: "Компания", placeholder: "Компания", charLimit: initTitleCharLimit},
	}
}

// initProductList инициализирует список товаров.
func initProductList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(lipgloss.Color("252"))
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(lipgloss.Color("245"))
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, defaultListWidth, defaultListHeight)
	l.Title = "Товары"
	l.SetShowHelp(false) // Справку выводим сами
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false) // Фильтрация на сервере через поиск
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initSearchInput инициализирует поле поиска.
func initSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Поиск товаров..."
	ti.Prompt = "Поиск: "
	ti.CharLimit = initTitleCharLimit
	ti.Width = defaultListWidth - inputOffset
	return ti
}

// initImagePathInput инициализирует поле ввода пути к изображению.
func initImagePathInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/image.png"
	ti.CharLimit = initPathCharLimit
	ti.Width = initFieldWidth
	return ti
}

// initHelpTextMap задает подсказки по клавишам для экранов.
func initHelpTextMap() map[screenState]string {
	return map[screenState]string{
		loginScreen:         "(Tab/Enter: следующее поле, Enter на последнем поле: войти, Ctrl+N: регистрация, Ctrl+C: выход)",
		signupScreen:        "(Tab/Enter: следующее поле, Enter на последнем поле: зарегистрироваться, Esc: ко входу, Ctrl+C: выход)",
		productListScreen:   "(Ввод: поиск, ↑/↓: выбор, Enter: открыть, Ctrl+N: добавить товар, Ctrl+C: выход)",
		productDetailScreen: "(e: редактировать, d: удалить, b/Esc: к списку, Ctrl+C: выход)",
	}
}

// initDocStyle инициализирует основной стиль документа.
func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal)
}

// initModel создает начальное состояние модели.
func initModel(ctx context.Context, opts Options) *model {
	startPath := opts.StartRoute
	if startPath == "" {
		startPath = router.PathLogin
	}
	return &model{
		ctx:            ctx,
		state:          loginScreen,
		router:         router.New(),
		startPath:      startPath,
		apiClient:      opts.Client,
		session:        opts.Session,
		serverURL:      opts.ServerURL,
		debugMode:      opts.Debug,
		loginForm:      initLoginForm(),
		signupForm:     initSignupForm(),
		productList:    initProductList(),
		searchInput:    initSearchInput(),
		searchDelay:    searchDebounce,
		addForm:        newForm(productFields()...),
		imagePathInput: initImagePathInput(),
		editForm:       newForm(productFields()...),
		statusTimeout:  statusMessageTimeout,
		helpTextMap:    initHelpTextMap(),
		docStyle:       initDocStyle(),
	}
}
