package validation

import "regexp"

// Требования к паролю. Формулировки совпадают с теми, что присылает
// сервер в missingRequirements — CLI показывает их пользователю как есть.
const (
	RequirementMinLength   = "Minimum 8 characters"
	RequirementUppercase   = "At least one uppercase letter"
	RequirementLowercase   = "At least one lowercase letter"
	RequirementNumber      = "At least one number"
	RequirementSpecialChar = "At least one special character"
)

// MinPasswordLen минимальная длина пароля
const MinPasswordLen = 8

var (
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	numberPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// totalRequirements общее число требований к паролю
const totalRequirements = 5

// PasswordStrength представляет уровень надежности пароля
type PasswordStrength string

const (
	StrengthVeryWeak   PasswordStrength = "VERY_WEAK"
	StrengthWeak       PasswordStrength = "WEAK"
	StrengthMedium     PasswordStrength = "MEDIUM"
	StrengthStrong     PasswordStrength = "STRONG"
	StrengthVeryStrong PasswordStrength = "VERY_STRONG"
)

// PasswordCheck представляет результат проверки пароля
type PasswordCheck struct {
	MissingRequirements []string // невыполненные требования, в фиксированном порядке
	Valid               bool     // true если выполнены все требования
}

// CheckPassword проверяет пароль против всех требований
func CheckPassword(password string) PasswordCheck {
	var missing []string

	if len(password) < MinPasswordLen {
		missing = append(missing, RequirementMinLength)
	}
	if !uppercasePattern.MatchString(password) {
		missing = append(missing, RequirementUppercase)
	}
	if !lowercasePattern.MatchString(password) {
		missing = append(missing, RequirementLowercase)
	}
	if !numberPattern.MatchString(password) {
		missing = append(missing, RequirementNumber)
	}
	if !specialPattern.MatchString(password) {
		missing = append(missing, RequirementSpecialChar)
	}

	return PasswordCheck{
		Valid:               len(missing) == 0,
		MissingRequirements: missing,
	}
}

// PasswordRequirements возвращает полный список требований к паролю
func PasswordRequirements() []string {
	return []string{
		RequirementMinLength,
		RequirementUppercase,
		RequirementLowercase,
		RequirementNumber,
		RequirementSpecialChar,
	}
}

// Strength возвращает уровень надежности по числу выполненных требований
func Strength(password string) PasswordStrength {
	met := totalRequirements - len(CheckPassword(password).MissingRequirements)

	switch {
	case met <= 1:
		return StrengthVeryWeak
	case met == 2:
		return StrengthWeak
	case met == 3:
		return StrengthMedium
	case met == 4:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

// Score возвращает числовую оценку пароля по шкале 0-100:
// 20 баллов за каждое выполненное требование плюс бонус до 20 баллов
// за длину сверх минимальной (2 балла за символ)
func Score(password string) int {
	if password == "" {
		return 0
	}

	met := totalRequirements - len(CheckPassword(password).MissingRequirements)
	score := met * 20

	if len(password) > MinPasswordLen {
		bonus := (len(password) - MinPasswordLen) * 2
		if bonus > 20 {
			bonus = 20
		}
		score += bonus
	}

	if score > 100 {
		score = 100
	}
	return score
}
