// Package schema содержит декларативные схемы валидации форм клиента:
// регистрации, входа, создания и редактирования товара.
//
// Схема - это структура с тэгами `form` (имя поля) и `validate`
// (правила go-playground/validator) плюс таблица сообщений: для каждого поля
// задано одно сообщение, которое показывается под полем при любой ошибке.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maynagashev/gophcatalog/models"
)

// Schema описывает форму, которую можно провалидировать.
type Schema interface {
	// Messages возвращает сообщения об ошибках по именам полей.
	Messages() map[string]string
}

// imageSchema реализуется формами с приложенными изображениями.
type imageSchema interface {
	attachedImages() []models.Image
}

// ValidationError содержит первое сообщение об ошибке для каждого поля.
type ValidationError struct {
	Fields map[string]string
}

// Error собирает сообщения всех полей в одну строку в стабильном порядке.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// Field возвращает сообщение для поля или пустую строку.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

//nolint:gochecknoglobals // validator.Validate кэширует разбор структур и безопасен для конкурентного использования
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Имена полей в ошибках берем из тэга form, чтобы они совпадали с полями формы
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate проверяет форму. Возвращает nil, если форма корректна,
// *ValidationError с сообщениями по полям или ошибку конфигурации схемы.
func Validate(s Schema) error {
	fields := make(map[string]string)
	if err := collect(validate.Struct(s), s.Messages(), fields); err != nil {
		return err
	}
	if is, ok := s.(imageSchema); ok {
		validateImages(is.attachedImages(), fields)
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// collect переводит ошибки validator в сообщения формы.
func collect(err error, messages map[string]string, fields map[string]string) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("ошибка конфигурации схемы: %w", err)
	}
	for _, fe := range ve {
		name := fe.Field()
		if _, exists := fields[name]; exists {
			continue // Показываем только первую ошибку поля
		}
		if msg, ok := messages[name]; ok {
			fields[name] = msg
		} else {
			fields[name] = fieldError(fe)
		}
	}
	return nil
}

// fieldError формирует сообщение для поля без настроенного текста.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный адрес электронной почты"
	case "min":
		return fmt.Sprintf("минимальная длина: %s", fe.Param())
	case "max":
		return fmt.Sprintf("максимальная длина: %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	default:
		return fmt.Sprintf("некорректное значение (%s)", fe.Tag())
	}
}
