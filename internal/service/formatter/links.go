package formatter

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/logger"
)

type LinkPolicy string

const (
	// Permissive no redacta ningún link.
	Permissive LinkPolicy = "permissive"
	// Strict reemplaza los links del bucket que no corresponden a un archivo existente.
	Strict LinkPolicy = "strict"
	// Exclusive además redacta cualquier otro link http(s).
	Exclusive LinkPolicy = "exclusive"
)

const Placeholder = "(Catálogo en actualización)"

func ParseLinkPolicy(s string) (LinkPolicy, bool) {
	switch p := LinkPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case Permissive, Strict, Exclusive:
		return p, true
	case "":
		return Strict, true
	default:
		return "", false
	}
}

var (
	linkPattern           = regexp.MustCompile(`(?i)https?://[^\s<>"'()\[\]{}]+`)
	defaultStoragePattern = regexp.MustCompile(`(?i)^https?://[\w-]+\.supabase\.co/storage/v1/object/public/`)
)

const trailingPunct = ".,;:!?¡¿»…"

func storagePattern(publicBase string) *regexp.Regexp {
	base := strings.TrimRight(strings.TrimSpace(publicBase), "/")
	if base == "" {
		return defaultStoragePattern
	}
	// el esquema no cuenta: un http:// inventado también es un link del bucket
	if i := strings.Index(base, "://"); i >= 0 {
		base = base[i+len("://"):]
	}
	return regexp.MustCompile(`(?i)^https?://` + regexp.QuoteMeta(base) + `/`)
}

// findLinks devuelve los rangos [inicio, fin) de cada URL, sin la puntuación final.
func findLinks(s string) [][2]int {
	var out [][2]int
	for _, m := range linkPattern.FindAllStringIndex(s, -1) {
		start, end := m[0], m[1]
		for end > start {
			trimmed := strings.TrimRight(s[start:end], trailingPunct)
			if len(trimmed) == end-start {
				break
			}
			end = start + len(trimmed)
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// mapProse aplica fn sólo al texto fuera de los links.
func mapProse(s string, fn func(string) string) string {
	links := findLinks(s)
	if len(links) == 0 {
		return fn(s)
	}
	var b strings.Builder
	last := 0
	for _, l := range links {
		b.WriteString(fn(s[last:l[0]]))
		b.WriteString(s[l[0]:l[1]])
		last = l[1]
	}
	b.WriteString(fn(s[last:]))
	return b.String()
}

func startsWithLink(s string) bool {
	loc := linkPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

// normalizeURL compara links sin importar mayúsculas, escapes ni barra final.
func normalizeURL(u string) string {
	if decoded, err := url.PathUnescape(u); err == nil {
		u = decoded
	}
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(u)), "/")
}

// knownLinks carga una sola vez por Format las URLs existentes.
type knownLinks struct {
	source URLSource
	log    *logger.Logger
	loaded bool
	valid  map[string]struct{}
	err    error
}

func (k *knownLinks) load(ctx context.Context) (map[string]struct{}, error) {
	if k.loaded {
		return k.valid, k.err
	}
	k.loaded = true
	urls, err := k.source.URLs(ctx)
	if err != nil {
		k.err = err
		k.log.Warn("no se pudieron leer los archivos, se omite la validación de links", "error", err)
		return nil, err
	}
	k.valid = make(map[string]struct{}, len(urls))
	for _, u := range urls {
		k.valid[normalizeURL(u)] = struct{}{}
	}
	return k.valid, nil
}

func (f *Formatter) validateLinks(ctx context.Context, text string, known *knownLinks) string {
	if f.policy == Permissive || f.urls == nil {
		return text
	}
	links := findLinks(text)
	if len(links) == 0 {
		return text
	}

	valid, err := known.load(ctx)
	if err != nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, l := range links {
		start, end := l[0], l[1]
		link := text[start:end]
		if f.keep(link, valid) {
			b.WriteString(text[last:end])
			last = end
			continue
		}
		f.log.Debug("link redactado", "url", link)
		// [Manual](url) no debe quedar con paréntesis dobles
		if start > last && text[start-1] == '(' && end < len(text) && text[end] == ')' {
			start--
			end++
		}
		b.WriteString(text[last:start])
		b.WriteString(Placeholder)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func (f *Formatter) keep(link string, valid map[string]struct{}) bool {
	if _, ok := valid[normalizeURL(link)]; ok {
		return true
	}
	if f.storage.MatchString(link) {
		return false
	}
	return f.policy != Exclusive
}
