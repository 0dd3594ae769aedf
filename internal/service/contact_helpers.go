package service

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// contactEmailTag accepts the loose local@domain.tld shape the site has always used,
// which is more permissive than validator's RFC 5322 "email" tag.
const contactEmailTag = "contact_email"

var contactEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterContactValidations installs the custom tags used by contact payloads.
func RegisterContactValidations(validate *validator.Validate) error {
	return validate.RegisterValidation(contactEmailTag, func(fl validator.FieldLevel) bool {
		return contactEmailPattern.MatchString(fl.Field().String())
	})
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefText(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func computeChecksum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(strings.TrimSpace(strings.ToLower(part))))
		hasher.Write([]byte("|"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := []rune(parts[0])
	masked := string(local[:1]) + "***"
	if len(local) > 2 {
		masked += string(local[len(local)-1:])
	}
	return masked + "@" + parts[1]
}
