package models

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxEmailLen максимальная длина email адреса (RFC 5321)
const MaxEmailLen = 254

// emailPattern — намеренно либеральный шаблон: точную проверку делает
// сервер, клиенту достаточно отсечь явно некорректный ввод
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email представляет нормализованный email адрес (trim + lowercase)
type Email string

// NewEmail нормализует и проверяет email адрес
func NewEmail(value string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))

	if normalized == "" {
		return "", fmt.Errorf("email cannot be empty")
	}
	if len(normalized) > MaxEmailLen {
		return "", fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if !emailPattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid email format: %q", normalized)
	}

	return Email(normalized), nil
}

func (e Email) String() string {
	return string(e)
}

// LocalPart возвращает часть адреса до символа @
func (e Email) LocalPart() string {
	at := strings.LastIndex(string(e), "@")
	return string(e)[:at]
}

// Domain возвращает часть адреса после символа @
func (e Email) Domain() string {
	at := strings.LastIndex(string(e), "@")
	return string(e)[at+1:]
}
