package formatter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// voseo reemplaza formas de tuteo por las rioplatenses.
var voseo = map[string]string{
	"puedes":    "podés",
	"tienes":    "tenés",
	"quieres":   "querés",
	"escríbeme": "escribime",
	"conoce":    "conocé",
	"necesitas": "necesitás",
	"sabes":     "sabés",
	"debes":     "debés",
	"prefieres": "preferís",
}

var fillerPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)según el manual técnico,?`),
	regexp.MustCompile(`(?i)según el catálogo,?`),
	regexp.MustCompile(`(?i)de acuerdo al manual,?`),
	regexp.MustCompile(`(?i)en el manual se menciona que`),
	regexp.MustCompile(`(?i)según la ficha técnica,?`),
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// applyVoseo recorre palabras completas (límites Unicode) y reemplaza las del diccionario
// respetando mayúsculas.
func applyVoseo(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isWordRune(r) {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		j := i
		for j < len(s) {
			r2, size2 := utf8.DecodeRuneInString(s[j:])
			if !isWordRune(r2) {
				break
			}
			j += size2
		}
		b.WriteString(replaceWord(s[i:j]))
		i = j
	}
	return b.String()
}

func replaceWord(word string) string {
	repl, ok := voseo[strings.ToLower(word)]
	if !ok {
		return word
	}
	if utf8.RuneCountInString(word) > 1 && word == strings.ToUpper(word) {
		return strings.ToUpper(repl)
	}
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(repl)
		return string(unicode.ToUpper(r)) + repl[size:]
	}
	return repl
}

// removeFiller repite hasta no encontrar muletillas, por si al quitar una queda otra armada.
func removeFiller(s string) string {
	for {
		out := s
		for _, re := range fillerPhrases {
			out = re.ReplaceAllString(out, "")
		}
		if out == s {
			return out
		}
		s = out
	}
}
