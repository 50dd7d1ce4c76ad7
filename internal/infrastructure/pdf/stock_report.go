// Package pdf genera el reporte de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Categoría | Stock | Precio | Valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / Valor del inventario / Stock bajo       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// LowStockThreshold a partir de este nivel (inclusive) el producto se marca como stock bajo.
const LowStockThreshold int64 = 5

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 128, Green: 0, Blue: 64}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 190, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa inventory.StockReportGenerator usando Maroto v2.
type StockReportGenerator struct {
	title string
	now   func() time.Time
}

// NewStockReportGenerator construye el generador; title aparece en la cabecera.
func NewStockReportGenerator(title string) *StockReportGenerator {
	if title == "" {
		title = "Boutique"
	}
	return &StockReportGenerator{title: title, now: time.Now}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(ctx context.Context, products []*entity.Product) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(summarize(products)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Stock", 1, align.Center),
		h("Precio", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableDetailRows: una fila por producto; el stock bajo se resalta en rojo.
func tableDetailRows(products []*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		stockProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if p.StockLevel <= LowStockThreshold {
			stockProps.Style = fontstyle.Bold
			stockProps.Color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(p.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.Category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", p.StockLevel), stockProps)),
			col.New(1).Add(text.New(formatMoney(p.Price),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(p.StockValue()),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

type summary struct {
	units    int64
	value    decimal.Decimal
	lowStock int
}

func summarize(products []*entity.Product) summary {
	var s summary
	for _, p := range products {
		s.units += p.StockLevel
		s.value = s.value.Add(p.StockValue())
		if p.StockLevel <= LowStockThreshold {
			s.lowStock++
		}
	}
	return s
}

func totalsRow(s summary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades:"),
			label("Valor del inventario:"),
			label("Productos con stock bajo:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", s.units)),
			value(formatMoney(s.value)),
			value(fmt.Sprintf("%d", s.lowStock)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney agrega separadores de miles a la parte entera.
// Ej: 12500 → "Rs. 12,500.00", 1299.5 → "Rs. 1,299.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return "Rs. " + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return "Rs. " + string(buf) + "." + frac
}
