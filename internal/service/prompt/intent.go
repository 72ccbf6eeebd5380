package prompt

import (
	"fmt"
	"strings"
	"unicode"
)

var Intents = []string{"VENTA", "SOPORTE", "PERSONAL", "SPAM"}

const UnknownIntent = "DESCONOCIDO"

func IntentPrompt(message string) string {
	return fmt.Sprintf(intentPrompt, message)
}

// ParseIntent toma la primera etiqueta conocida que aparezca en la respuesta del modelo.
func ParseIntent(reply string) string {
	words := strings.FieldsFunc(strings.ToUpper(reply), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		for _, intent := range Intents {
			if w == intent {
				return intent
			}
		}
	}
	return UnknownIntent
}
