package tui

import "strings"

// dash возвращает "-" для пустых значений.
func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// errText возвращает текст ошибки или "-".
func errText(err error) string {
	if err == nil {
		return "-"
	}
	return err.Error()
}
