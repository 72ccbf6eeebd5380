package prompt

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/models"
)

// MaxTechnicalRunes acota el texto extraído que entra al prompt por producto.
const MaxTechnicalRunes = 6000

type CatalogReader interface {
	Catalog(ctx context.Context) ([]models.Product, error)
}

type RuleReader interface {
	Active(ctx context.Context) ([]models.Order, error)
}

type AgentStatus interface {
	Enabled(ctx context.Context) bool
}

type Prompt struct {
	Text        string
	Enabled     bool
	Products    int
	ActiveRules int
}

type Assembler struct {
	catalog CatalogReader
	rules   RuleReader
	status  AgentStatus
	log     *logger.Logger
}

func NewAssembler(catalog CatalogReader, rules RuleReader, status AgentStatus, log *logger.Logger) *Assembler {
	return &Assembler{catalog: catalog, rules: rules, status: status, log: logger.OrNop(log).With("component", "prompt")}
}

// Assemble arma el prompt de sistema. Si falla la lectura devuelve sólo la persona junto con el error;
// quien llama no debe usar ese prompt para consultar al modelo.
func (a *Assembler) Assemble(ctx context.Context) (Prompt, error) {
	if a.status != nil && !a.status.Enabled(ctx) {
		return Prompt{Text: ReceptionOnlyPrompt}, nil
	}

	products, err := a.catalog.Catalog(ctx)
	if err != nil {
		a.log.Error("no se pudo leer el catálogo", "error", err)
		return Prompt{Text: CorePrompt, Enabled: true}, fmt.Errorf("armando prompt: %w", err)
	}
	rules, err := a.rules.Active(ctx)
	if err != nil {
		a.log.Error("no se pudieron leer las órdenes", "error", err)
		return Prompt{Text: CorePrompt, Enabled: true}, fmt.Errorf("armando prompt: %w", err)
	}

	return Prompt{
		Text:        Render(products, rules),
		Enabled:     true,
		Products:    len(products),
		ActiveRules: len(rules),
	}, nil
}

// Render concatena persona, conocimiento y órdenes. Las órdenes inactivas se ignoran.
func Render(products []models.Product, rules []models.Order) string {
	var b strings.Builder
	b.WriteString(CorePrompt)
	b.WriteString("\n\n")
	b.WriteString(knowledgeHeader)
	b.WriteString("\n")

	if len(products) == 0 {
		b.WriteString(noProducts)
	}
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n\n")
		}
		writeProduct(&b, p)
	}

	b.WriteString("\n\n")
	b.WriteString(rulesHeader)
	b.WriteString("\n")
	b.WriteString(renderRules(rules))
	return b.String()
}

func writeProduct(b *strings.Builder, p models.Product) {
	fmt.Fprintf(b, "- PRODUCTO: %s\n", p.Nombre)
	fmt.Fprintf(b, "  CATEGORÍA: %s\n", categoryLabel(p.Categoria))
	fmt.Fprintf(b, "  PRECIO: %s\n", formatPrice(p.Precio))
	fmt.Fprintf(b, "  STOCK: %d unidades\n", p.Stock)

	desc := strings.TrimSpace(p.DescripcionTecnica)
	if desc == "" {
		desc = noDescription
	}
	fmt.Fprintf(b, "  DESCRIPCIÓN: %s", desc)

	var technical []string
	linked := 0
	for _, a := range p.Archivos {
		if strings.TrimSpace(a.URL) == "" {
			continue
		}
		fmt.Fprintf(b, "\n  LINK DE ACCESO: %s (%s)", a.URL, attachmentLabel(a.Tipo))
		linked++
		if a.TextoExtraido != nil && strings.TrimSpace(*a.TextoExtraido) != "" {
			technical = append(technical, strings.TrimSpace(*a.TextoExtraido))
		}
	}
	if linked == 0 {
		fmt.Fprintf(b, "\n  LINK DE ACCESO: %s", noCatalog)
	}
	if len(technical) > 0 {
		fmt.Fprintf(b, "\n  CONTENIDO TÉCNICO COMPLETO: %s", truncateRunes(strings.Join(technical, "\n"), MaxTechnicalRunes))
	}
}

func renderRules(rules []models.Order) string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		content := strings.TrimSpace(r.Contenido)
		if !r.Activa || content == "" {
			continue
		}
		lines = append(lines, "• "+content)
	}
	if len(lines) == 0 {
		return noRules
	}
	return strings.Join(lines, "\n")
}

func formatPrice(p *float64) string {
	if p == nil {
		return noPrice
	}
	v := *p
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return "$" + humanize.FormatInteger("#.###,", int(v))
	}
	return "$" + humanize.FormatFloat("#.###,##", v)
}

func categoryLabel(c models.Category) string {
	switch c {
	case models.CategoryChair:
		return "Sillón"
	case models.CategoryScanner:
		return "Escáner"
	case models.CategoryEquipment:
		return "Equipamiento"
	default:
		return string(c)
	}
}

func attachmentLabel(t models.AttachmentType) string {
	if t == models.AttachmentPDF {
		return "PDF"
	}
	return "Imagen"
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
