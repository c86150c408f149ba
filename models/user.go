package models

// LoginRequest представляет данные формы входа.
// Отправляется как application/x-www-form-urlencoded, поэтому json-тэги не нужны.
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse представляет тело ответа при успешном входе.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// SignupRequest представляет тело запроса на регистрацию.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse представляет тело ответа на регистрацию.
// Сервер может сразу выдать токен, но не обязан.
type SignupResponse struct {
	AccessToken string `json:"access_token,omitempty"`
}

// SessionStatus представляет ответ на проверку сессии (GET /user/me).
type SessionStatus struct {
	Status bool `json:"status"`
}
