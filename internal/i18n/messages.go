// Package i18n holds the handful of user-facing strings returned by the API in
// the languages the website is published in.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	// Spanish is the site's primary language and the fallback.
	Spanish = "es"
	// English is the secondary language.
	English = "en"
)

// Message keys.
const (
	ContactSuccess        = "contact.success"
	DatabaseNotConfigured = "contact.database_not_configured"
)

var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

var catalog = map[string]map[string]string{
	Spanish: {
		ContactSuccess:        "¡Mensaje enviado con éxito!",
		DatabaseNotConfigured: "Por favor configura las variables de entorno de la base de datos (SUPABASE_URL y SUPABASE_KEY).",
	},
	English: {
		ContactSuccess:        "Message sent successfully!",
		DatabaseNotConfigured: "Please configure the database environment variables (SUPABASE_URL and SUPABASE_KEY).",
	},
}

// Negotiate picks the supported language for an Accept-Language header value.
func Negotiate(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return Spanish
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Spanish
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Spanish
	}
	if supported[index] == language.English {
		return English
	}
	return Spanish
}

// Normalize maps an arbitrary locale string onto a supported language.
func Normalize(locale string) string {
	return Negotiate(locale)
}

// T returns the message for key in locale, falling back to Spanish.
func T(locale, key string) string {
	if messages, ok := catalog[Normalize(locale)]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	return catalog[Spanish][key]
}
