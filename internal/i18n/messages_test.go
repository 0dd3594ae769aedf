package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	cases := map[string]string{
		"":                          Spanish,
		"en-US,en;q=0.9":            English,
		"es-PA,es;q=0.9,en;q=0.8":   Spanish,
		"fr-FR":                     Spanish,
		"de;q=0.9, en-GB;q=0.8":     English,
		"not a language header!!!!": Spanish,
	}

	for header, want := range cases {
		assert.Equal(t, want, Negotiate(header), header)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "¡Mensaje enviado con éxito!", T("es", ContactSuccess))
	assert.Equal(t, "Message sent successfully!", T("en", ContactSuccess))
	assert.Equal(t, "¡Mensaje enviado con éxito!", T("", ContactSuccess))
	assert.Empty(t, T("en", "unknown.key"))
}
