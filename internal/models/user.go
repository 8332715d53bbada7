package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStatus представляет состояние учетной записи пользователя
type UserStatus string

const (
	// StatusPendingVerification пользователь ожидает подтверждения email
	StatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	// StatusActive пользователь активен
	StatusActive UserStatus = "ACTIVE"
	// StatusSuspended пользователь временно заблокирован
	StatusSuspended UserStatus = "SUSPENDED"
	// StatusDeactivated пользователь деактивирован
	StatusDeactivated UserStatus = "DEACTIVATED"
)

// ParseUserStatus проверяет и возвращает UserStatus
func ParseUserStatus(value string) (UserStatus, error) {
	switch UserStatus(value) {
	case StatusPendingVerification, StatusActive, StatusSuspended, StatusDeactivated:
		return UserStatus(value), nil
	default:
		return "", fmt.Errorf("unknown user status: %q", value)
	}
}

// IsActive возвращает true только для статуса ACTIVE
func (s UserStatus) IsActive() bool {
	return s == StatusActive
}

// UserID представляет идентификатор пользователя (UUID v4, lowercase)
type UserID string

// NewUserID проверяет формат UUID и нормализует его к нижнему регистру
func NewUserID(value string) (UserID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("invalid user id: %w", err)
	}
	return UserID(id.String()), nil
}

func (id UserID) String() string {
	return string(id)
}

// User представляет пользователя на стороне клиента.
// Агрегат неизменяем после создания: изменения атрибутов требуют
// нового fetch с сервера и повторной реконструкции.
type User struct {
	ID              UserID
	Email           Email
	FirstName       string
	LastName        string
	Status          UserStatus
	EmailVerifiedAt *time.Time // nil пока email не подтвержден
	LastLoginAt     *time.Time // nil до первого логина
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser создает пользователя для свежей регистрации:
// статус PENDING_VERIFICATION, оба timestamp — сейчас, verification поля пустые
func NewUser(id UserID, email Email, firstName, lastName string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Status:    StatusPendingVerification,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserFromPersistence реконструирует пользователя из полного набора полей
// (ответ сервера или кешированный профиль)
func UserFromPersistence(
	id UserID,
	email Email,
	firstName, lastName string,
	status UserStatus,
	emailVerifiedAt, lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		ID:              id,
		Email:           email,
		FirstName:       firstName,
		LastName:        lastName,
		Status:          status,
		EmailVerifiedAt: emailVerifiedAt,
		LastLoginAt:     lastLoginAt,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// FullName возвращает имя и фамилию одной строкой
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EmailVerified проверяет, подтвержден ли email
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// CanLogIn пользователь может логиниться только будучи активным
// и с подтвержденным email
func (u *User) CanLogIn() bool {
	return u.Status.IsActive() && u.EmailVerified()
}
