package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/maynagashev/gophcatalog/models"
)

// Ограничения на изображения товара.
const (
	MaxImages    = 10
	MaxImageSize = 5 * 1024 * 1024 // 5 МБ
)

// AllowedImageTypes перечисляет допустимые типы изображений.
//
//nolint:gochecknoglobals // Неизменяемый справочник
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// NewImage создает вложение из содержимого файла, определяя тип по сигнатуре.
func NewImage(name string, data []byte) models.Image {
	return models.Image{
		Name:        name,
		ContentType: mediaType(mimetype.Detect(data).String()),
		Size:        int64(len(data)),
		Data:        data,
	}
}

// LoadImage читает файл изображения с диска.
// Файлы больше MaxImageSize не читаются целиком: их размер попадет в валидацию.
func LoadImage(path string) (models.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("ошибка доступа к файлу '%s': %w", path, err)
	}
	if info.IsDir() {
		return models.Image{}, fmt.Errorf("'%s' является директорией", path)
	}

	name := filepath.Base(path)
	if info.Size() > MaxImageSize {
		mtype, errDetect := mimetype.DetectFile(path)
		if errDetect != nil {
			return models.Image{}, fmt.Errorf("ошибка определения типа файла '%s': %w", path, errDetect)
		}
		return models.Image{Name: name, ContentType: mediaType(mtype.String()), Size: info.Size()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("ошибка чтения файла '%s': %w", path, err)
	}
	return NewImage(name, data), nil
}

// mediaType отбрасывает параметры типа ("text/plain; charset=utf-8" -> "text/plain").
func mediaType(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(base)
}

// validateImages проверяет размер и тип каждого изображения.
// Все найденные нарушения собираются в сообщение поля images.
func validateImages(images []models.Image, fields map[string]string) {
	var problems []string
	for _, img := range images {
		err := validate.Struct(img)
		if err == nil {
			continue
		}
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			problems = append(problems, fmt.Sprintf(msgImageUnexpected, img.Name))
			continue
		}
		for _, fe := range ve {
			switch fe.Field() {
			case "size":
				problems = append(problems, fmt.Sprintf(msgImageSize, img.Name))
			case "content_type":
				problems = append(problems, fmt.Sprintf(msgImageType, img.Name))
			default:
				problems = append(problems, fmt.Sprintf(msgImageUnexpected, img.Name))
			}
		}
	}
	if len(problems) == 0 {
		return
	}
	if existing, ok := fields[FieldImages]; ok {
		problems = append([]string{existing}, problems...)
	}
	fields[FieldImages] = strings.Join(problems, "; ")
}
