package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Константы валидации
const (
	MinUsernameLength       = 3
	MaxUsernameLength       = 30
	MinGigTitleLength       = 3
	MaxGigTitleLength       = 200
	MinGigDescriptionLength = 10
	MaxGigDescriptionLength = 5000
	MaxProposalMessageLength = 2000
	MaxProofDescriptionLength = 5000
	MaxExternalLinkLength   = 500
	MaxProofImages          = 10
	MaxProposalImages       = 5
)

// MaxPrice максимальная цена услуги и предложения.
var MaxPrice = decimal.NewFromInt(100_000_000)

var (
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidatePrice проверяет, что цена неотрицательна и не превышает лимит.
func ValidatePrice(fieldName string, value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%s не может быть отрицательной", fieldName)
	}
	if value.GreaterThan(MaxPrice) {
		return fmt.Errorf("%s не может превышать %s", fieldName, MaxPrice.String())
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}
	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только латинские буквы, цифры, дефис и подчёркивание")
	}
	return nil
}

// ValidateExternalLink проверяет ссылку на внешний ресурс.
func ValidateExternalLink(link string) error {
	if link == "" {
		return nil
	}
	if utf8.RuneCountInString(link) > MaxExternalLinkLength {
		return fmt.Errorf("ссылка должна быть не более %d символов", MaxExternalLinkLength)
	}
	parsed, err := url.Parse(link)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("ссылка должна быть валидным http(s) URL")
	}
	return nil
}
