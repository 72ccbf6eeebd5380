package formatter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	bucketURL  = "https://abcd.supabase.co/storage/v1/object/public/catalogos"
	manualURL  = bucketURL + "/prod/Manual%20Fussen-1.pdf"
	preciosURL = bucketURL + "/general/lista-precios-2024-150000.pdf"
)

type fakeURLs struct {
	urls  []string
	err   error
	calls int
}

func (f *fakeURLs) URLs(context.Context) ([]string, error) {
	f.calls++
	return f.urls, f.err
}

func newTestFormatter(policy LinkPolicy) (*Formatter, *fakeURLs) {
	src := &fakeURLs{urls: []string{manualURL, preciosURL}}
	return New(src, Options{Policy: policy}, nil), src
}

func TestFormatEmptyRunsNothing(t *testing.T) {
	f, src := newTestFormatter(Strict)
	assert.Equal(t, "", f.Format(context.Background(), ""))
	assert.Zero(t, src.calls)
}

func TestFormatMarkupAndCapitalization(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	got := f.Format(context.Background(), "**sillón** Fussen *disponible*")
	assert.Equal(t, "Sillón Fussen disponible", got)
}

func TestFormatVoseo(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	ctx := context.Background()

	assert.Equal(t,
		"Si querés, podés escribirme. PODÉS venir cuando necesités... ¿Tenés dudas? Escribime.",
		f.Format(ctx, "Si quieres, puedes escribirme. PUEDES venir cuando necesités... ¿Tienes dudas? Escríbeme."),
	)
	assert.Equal(t, "Para conocerlo conocé el showroom", f.Format(ctx, "para conocerlo conoce el showroom"))
	assert.Equal(t, "Ver https://evolucion.com.ar/puedes-12000", f.Format(ctx, "ver https://evolucion.com.ar/puedes-12000"))
}

func TestFormatNumbers(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	in := "Precio: $12000 por el Fussen 6500, envío USD 6500 y 150000 unidades en stock. " +
		"Archivo archivo_12000.pdf, código modelo-12000, cuota $12000,50 y lote 0012345; ya formateado 12.000."
	want := "Precio: $12.000 por el Fussen 6500, envío USD 6.500 y 150.000 unidades en stock. " +
		"Archivo archivo_12000.pdf, código modelo-12000, cuota $12.000,50 y lote 0012345; ya formateado 12.000."
	assert.Equal(t, want, f.Format(context.Background(), in))
}

func TestFormatNumbersTable(t *testing.T) {
	cases := map[string]string{
		"Fussen 6500":      "Fussen 6500",
		"$12000":           "$12.000",
		"$ 6500":           "$ 6.500",
		"US$2500":          "US$2.500",
		"U$S 2500":         "U$S 2.500",
		"ARS 1500000":      "ARS 1.500.000",
		"MARS6500":         "MARS6500",
		"C:\\docs\\12000":  "C:\\docs\\12000",
		"12000.pdf":        "12000.pdf",
		"12000.":           "12.000.",
		"v12000":           "v12000",
		"1234567890123456": "1234567890123456",
		"$12000.50":        "$12.000,50",
		"USD 1234.5 final": "USD 1.234,5 final",
		"$12000.50.":       "$12.000,50.",
		"$12000.505":       "$12000.505",
		"$12000.50.3":      "$12000.50.3",
		"12000.50":         "12000.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatNumbers(in), in)
	}
}

func TestFormatFillerAndWhitespace(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	in := "Según el catálogo, el sillón tiene  garantía.\n\n\n\nDe acuerdo al manual, la potencia es de 1200 W.   \n\tEn el manual se menciona que incluye lámpara."
	want := "El sillón tiene garantía.\n\nla potencia es de 1200 W.\nincluye lámpara."
	assert.Equal(t, want, f.Format(context.Background(), in))
}

func TestFormatStrictLinks(t *testing.T) {
	f, src := newTestFormatter(Strict)
	in := "Mirá el manual: " + bucketURL + "/prod/manual%20fussen-1.pdf. También " +
		bucketURL + "/prod/inventado-2.pdf y https://www.evoluciondental.com.ar/contacto"
	want := "Mirá el manual: " + bucketURL + "/prod/manual%20fussen-1.pdf. También " +
		Placeholder + " y https://www.evoluciondental.com.ar/contacto"

	assert.Equal(t, want, f.Format(context.Background(), in))
	assert.Equal(t, 1, src.calls)

	plain := "Mirá http://abcd.supabase.co/storage/v1/object/public/catalogos/inventado.pdf"
	assert.Equal(t, "Mirá "+Placeholder, f.Format(context.Background(), plain))
}

func TestFormatMarkdownLinkRedaction(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	ctx := context.Background()

	got := f.Format(ctx, "Ver [Manual]("+bucketURL+"/prod/falso.pdf) y [Lista]("+preciosURL+")")
	assert.Equal(t, "Ver [Manual]"+Placeholder+" y [Lista]("+preciosURL+")", got)
	assert.Equal(t, got, f.Format(ctx, got))
}

func TestFormatKnownLinkIsByteExact(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	got := f.Format(context.Background(), "La lista está en "+preciosURL+" desde $12000")
	assert.Equal(t, "La lista está en "+preciosURL+" desde $12.000", got)
}

func TestFormatExclusiveLinks(t *testing.T) {
	f, _ := newTestFormatter(Exclusive)
	got := f.Format(context.Background(), "Manual: "+manualURL+" o https://otro-sitio.com/manual.pdf")
	assert.Equal(t, "Manual: "+manualURL+" o "+Placeholder, got)
}

func TestFormatPermissiveSkipsLookup(t *testing.T) {
	f, src := newTestFormatter(Permissive)
	in := "Ver " + bucketURL + "/prod/inventado-2.pdf"
	assert.Equal(t, in, f.Format(context.Background(), in))
	assert.Zero(t, src.calls)
}

func TestFormatLookupFailureKeepsOtherStages(t *testing.T) {
	src := &fakeURLs{err: errors.New("timeout")}
	f := New(src, Options{}, nil)
	in := "**puedes** ver " + bucketURL + "/x.pdf por $15000"
	assert.Equal(t, "Podés ver "+bucketURL+"/x.pdf por $15.000", f.Format(context.Background(), in))
	assert.Equal(t, 1, src.calls)
}

func TestFormatNoLinksSkipsLookup(t *testing.T) {
	f, src := newTestFormatter(Strict)
	assert.Equal(t, "Hola", f.Format(context.Background(), "hola"))
	assert.Zero(t, src.calls)
}

func TestFormatLeadingLinkIsNotCapitalized(t *testing.T) {
	f, _ := newTestFormatter(Strict)
	in := "https://www.evoluciondental.com.ar es nuestra web"
	assert.Equal(t, in, f.Format(context.Background(), in))
}

func TestFormatCustomPublicBase(t *testing.T) {
	src := &fakeURLs{}
	f := New(src, Options{Policy: Strict, PublicBase: "https://cdn.example.com/catalogos/"}, nil)
	in := "ver https://cdn.example.com/catalogos/falso.pdf y " + bucketURL + "/otro.pdf"
	assert.Equal(t, "Ver "+Placeholder+" y "+bucketURL+"/otro.pdf", f.Format(context.Background(), in))

	in = "o http://CDN.example.com/catalogos/falso.pdf"
	assert.Equal(t, "O "+Placeholder, f.Format(context.Background(), in))
}

func TestFormatIsIdempotent(t *testing.T) {
	inputs := []string{
		"**hola**, puedes ver el Fussen 6500 a $12000 en " + manualURL + ".",
		"según el catálogo, tienes 150000 unidades\n\n\n\ny USD 6500",
		"https://www.evoluciondental.com.ar/precios-12000 quieres?",
		"Falso: " + bucketURL + "/nada-123456.pdf, cuota $12000,50",
		"  \n  ",
		"¿Necesitas el escáner? Escríbeme",
	}
	for _, policy := range []LinkPolicy{Permissive, Strict, Exclusive} {
		f, _ := newTestFormatter(policy)
		for _, in := range inputs {
			once := f.Format(context.Background(), in)
			assert.Equal(t, once, f.Format(context.Background(), once), "%s: %q", policy, in)
		}
	}
}

func TestFormatFillerNextToNumber(t *testing.T) {
	f, src := newTestFormatter(Strict)
	ctx := context.Background()
	cases := map[string]string{
		"Según la ficha técnica,15000 unidades vendidas":           "15.000 unidades vendidas",
		"según el catálogo,150000" + bucketURL + "/fake.pdf":       "150.000" + Placeholder,
		"cuesta $ según el catálogo, 1234":                         "Cuesta $ 1.234",
		"según el según el catálogo,catálogo, puedes pedir 150000": "Podés pedir 150.000",
	}
	for in, want := range cases {
		once := f.Format(ctx, in)
		assert.Equal(t, want, once, in)
		assert.Equal(t, once, f.Format(ctx, once), in)
	}
	// sólo un caso tiene links: una lectura aunque haya varias pasadas
	assert.Equal(t, 1, src.calls)
}

func TestFormatIsIdempotentOverTokenCombinations(t *testing.T) {
	tokens := []string{
		"$", "12000", "1234", ".50", " ", ",", "(", ")", "puedes",
		"según el catálogo,", "según la ficha técnica,",
		bucketURL + "/fake.pdf", manualURL, "https://otro-sitio.com/x",
	}
	var inputs []string
	for _, a := range tokens {
		inputs = append(inputs, a)
		for _, b := range tokens {
			inputs = append(inputs, a+b)
			for _, c := range tokens {
				inputs = append(inputs, a+b+c)
			}
		}
	}

	for _, policy := range []LinkPolicy{Permissive, Strict, Exclusive} {
		f, _ := newTestFormatter(policy)
		for _, in := range inputs {
			once := f.Format(context.Background(), in)
			if !assert.Equal(t, once, f.Format(context.Background(), once), "%s: %q", policy, in) {
				return
			}
		}
	}
}

func TestParseLinkPolicy(t *testing.T) {
	p, ok := ParseLinkPolicy(" EXCLUSIVE ")
	assert.True(t, ok)
	assert.Equal(t, Exclusive, p)

	p, ok = ParseLinkPolicy("")
	assert.True(t, ok)
	assert.Equal(t, Strict, p)

	_, ok = ParseLinkPolicy("laxo")
	assert.False(t, ok)
}
