package schema

import "github.com/maynagashev/gophcatalog/models"

// Имена полей форм.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldTitle       = "title"
	FieldProductTag  = "product_tag"
	FieldDealer      = "dealer"
	FieldDescription = "description"
	FieldCompany     = "company"
	FieldImages      = "images"
)

// Сообщения об ошибках полей.
const (
	msgSignupUsername  = "Введите ваше имя"
	msgEmail           = "Введите корректный адрес электронной почты"
	msgPassword        = "Пароль должен содержать не менее 6 символов"
	msgLoginUsername   = "Введите корректное имя пользователя"
	msgTitle           = "Введите название товара (не более 200 символов)"
	msgProductTag      = "Введите тег товара (не более 100 символов)"
	msgDealer          = "Имя дилера не должно превышать 200 символов"
	msgDescription     = "Описание не должно превышать 2000 символов"
	msgCompany         = "Название компании не должно превышать 200 символов"
	msgImagesCount     = "Можно загрузить не более 10 изображений"
	msgImageSize       = "%s: размер файла превышает 5 МБ"
	msgImageType       = "%s: допустимы только изображения JPEG, PNG и WEBP"
	msgImageUnexpected = "%s: некорректный файл"
)

// SignupForm - схема формы регистрации.
type SignupForm struct {
	Username string `form:"username" validate:"required,min=1"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// Messages реализует Schema.
func (SignupForm) Messages() map[string]string {
	return map[string]string{
		FieldUsername: msgSignupUsername,
		FieldEmail:    msgEmail,
		FieldPassword: msgPassword,
	}
}

// Request преобразует форму в тело запроса.
func (f SignupForm) Request() models.SignupRequest {
	return models.SignupRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

// LoginForm - схема формы входа.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required,min=6"`
}

// Messages реализует Schema.
func (LoginForm) Messages() map[string]string {
	return map[string]string{
		FieldUsername: msgLoginUsername,
		FieldPassword: msgPassword,
	}
}

// Request преобразует форму в данные запроса.
func (f LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{Username: f.Username, Password: f.Password}
}

// EditProductForm - схема формы редактирования товара (без изображений).
type EditProductForm struct {
	Title       string `form:"title"       validate:"required,max=200"`
	ProductTag  string `form:"product_tag" validate:"required,max=100"`
	Dealer      string `form:"dealer"      validate:"max=200"`
	Description string `form:"description" validate:"max=2000"`
	Company     string `form:"company"     validate:"max=200"`
}

// Messages реализует Schema.
func (EditProductForm) Messages() map[string]string {
	return productMessages()
}

// Input преобразует форму в изменяемые поля товара.
func (f EditProductForm) Input() models.ProductInput {
	return models.ProductInput{
		Title:       f.Title,
		ProductTag:  f.ProductTag,
		Dealer:      f.Dealer,
		Description: f.Description,
		Company:     f.Company,
	}
}

// ProductForm - схема формы создания товара с изображениями.
type ProductForm struct {
	EditProductForm

	Images []models.Image `form:"images" validate:"max=10"`
}

// Messages реализует Schema.
func (ProductForm) Messages() map[string]string {
	msgs := productMessages()
	msgs[FieldImages] = msgImagesCount
	return msgs
}

func (f ProductForm) attachedImages() []models.Image {
	return f.Images
}

func productMessages() map[string]string {
	return map[string]string{
		FieldTitle:       msgTitle,
		FieldProductTag:  msgProductTag,
		FieldDealer:      msgDealer,
		FieldDescription: msgDescription,
		FieldCompany:     msgCompany,
	}
}
