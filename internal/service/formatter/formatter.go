package formatter

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/evolucion-dental/api-catalogo/internal/logger"
)

// URLSource entrega las URLs de archivos que realmente existen.
type URLSource interface {
	URLs(ctx context.Context) ([]string, error)
}

type Options struct {
	Policy LinkPolicy
	// PublicBase es la URL pública del bucket; vacía usa el patrón de Supabase Storage.
	PublicBase string
}

// Formatter limpia la respuesta del modelo antes de mostrarla en el chat.
type Formatter struct {
	urls    URLSource
	policy  LinkPolicy
	storage *regexp.Regexp
	log     *logger.Logger
}

func New(urls URLSource, opts Options, log *logger.Logger) *Formatter {
	policy := opts.Policy
	if policy == "" {
		policy = Strict
	}
	return &Formatter{
		urls:    urls,
		policy:  policy,
		storage: storagePattern(opts.PublicBase),
		log:     logger.OrNop(log).With("component", "formatter"),
	}
}

// maxPasses acota la búsqueda del punto fijo; en la práctica alcanza con dos.
const maxPasses = 4

// Format aplica, en orden: limpieza de markup, voseo, miles, muletillas y espacios, validación de links
// y mayúscula inicial. Quitar muletillas o redactar links puede dejar un número recién suelto, así que
// las etapas se repiten hasta que el texto no cambia. Es idempotente.
func (f *Formatter) Format(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}

	known := &knownLinks{source: f.urls, log: f.log}
	text := stripMarkup(raw)
	for i := 0; i < maxPasses; i++ {
		next := f.pass(ctx, text, known)
		if next == text {
			break
		}
		text = next
	}
	return capitalizeFirst(text)
}

func (f *Formatter) pass(ctx context.Context, text string, known *knownLinks) string {
	text = mapProse(text, func(prose string) string {
		return formatNumbers(applyVoseo(prose))
	})
	text = cleanWhitespace(removeFiller(text))
	return f.validateLinks(ctx, text, known)
}

func stripMarkup(s string) string {
	return strings.ReplaceAll(s, "*", "")
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	extraBlankLines = regexp.MustCompile(`\n{3,}`)
)

// cleanWhitespace deja un solo espacio entre palabras y como máximo una línea en blanco entre párrafos.
func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = horizontalSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = extraBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func capitalizeFirst(s string) string {
	if startsWithLink(s) {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
