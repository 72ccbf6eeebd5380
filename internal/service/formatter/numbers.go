package formatter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// humanize formatea vía float64; más de 15 cifras perdería precisión.
const maxDigits = 15

var digitRun = regexp.MustCompile(`[0-9]+`)

// Caracteres que, pegados a un número, indican que es parte de una ruta, URL o código.
const (
	pathBefore = `/\:=_-.#?&%@+,`
	pathAfter  = `/\_-@`
)

var currencyCodes = []string{"US$", "U$S", "USD", "ARS"}

// formatNumbers agrega separador de miles (12000 -> 12.000) a montos y cantidades.
// Un número de 4 cifras sin moneda se toma como modelo ("Fussen 6500") y no se toca.
func formatNumbers(s string) string {
	runs := digitRun.FindAllStringIndex(s, -1)
	if len(runs) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(runs))
	last := 0
	for _, m := range runs {
		start, end := m[0], m[1]
		b.WriteString(s[last:start])
		out, decimal := formatRun(s, start, end)
		b.WriteString(out)
		last = end
		if decimal {
			// $12000.50 -> $12.000,50
			b.WriteByte(',')
			last = end + 1
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

// formatRun devuelve el número agrupado. decimal indica que el punto que sigue es un separador decimal
// de un monto y debe pasar a coma.
func formatRun(s string, start, end int) (out string, decimal bool) {
	digits := s[start:end]
	if len(digits) < 4 || len(digits) > maxDigits || digits[0] == '0' {
		return digits, false
	}

	currency := hasCurrency(s[:start])

	if prev, _ := utf8.DecodeLastRuneInString(s[:start]); start > 0 {
		if strings.ContainsRune(pathBefore, prev) {
			return digits, false
		}
		if !currency && (unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			return digits, false
		}
	}

	if end < len(s) {
		next, size := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(next) || unicode.IsDigit(next) || strings.ContainsRune(pathAfter, next) {
			return digits, false
		}
		if next == '.' && currency && decimalTail(s[end+size:]) {
			grouped, ok := group(digits)
			return grouped, ok
		}
		if next == '.' && end+size < len(s) {
			after, _ := utf8.DecodeRuneInString(s[end+size:])
			if unicode.IsLetter(after) || unicode.IsDigit(after) {
				return digits, false
			}
		}
	}

	if len(digits) == 4 && !currency {
		return digits, false
	}

	grouped, _ := group(digits)
	return grouped, false
}

func group(digits string) (string, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits, false
	}
	return humanize.FormatInteger("#.###,", n), true
}

// decimalTail acepta una o dos cifras de centavos que no sigan con otra cifra, letra o punto.
func decimalTail(s string) bool {
	n := 0
	for n < len(s) && n < 3 && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 || n > 2 {
		return false
	}
	if n == len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[n:])
	if unicode.IsLetter(r) || r == '_' || r == '/' {
		return false
	}
	if r == '.' || r == ',' {
		after := s[n+1:]
		if after != "" && after[0] >= '0' && after[0] <= '9' {
			return false
		}
	}
	return true
}

// hasCurrency mira si el texto previo termina en un marcador de moneda, con espacios opcionales.
func hasCurrency(before string) bool {
	trimmed := strings.TrimRight(before, " \t")
	if strings.HasSuffix(trimmed, "$") {
		return true
	}
	for _, code := range currencyCodes {
		if len(trimmed) < len(code) || !strings.EqualFold(trimmed[len(trimmed)-len(code):], code) {
			continue
		}
		rest := trimmed[:len(trimmed)-len(code)]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(rest)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
