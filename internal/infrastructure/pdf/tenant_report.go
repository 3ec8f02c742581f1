// Package pdf genera el reporte de tenants del super admin.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación │ total de tenants         │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Tenant | Estado | Solicitante | Solicitud | Usuarios | … │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  RESUMEN: activos / inactivos / eliminados                        │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

var _ ports.TenantReportRenderer = (*TenantReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// TenantReportGenerator implementa ports.TenantReportRenderer usando Maroto v2.
type TenantReportGenerator struct {
	appName string
}

// NewTenantReportGenerator construye el generador.
func NewTenantReportGenerator(appName string) *TenantReportGenerator {
	return &TenantReportGenerator{appName: appName}
}

// RenderTenantReport genera el PDF y devuelve sus bytes.
func (g *TenantReportGenerator) RenderTenantReport(rows []*entity.TenantSummary, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de tenants", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(len(rows), generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for i, s := range rows {
		m.AddRows(tableDetailRow(s, i%2 == 1))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(total int, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE TENANTS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d tenants", total), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 4,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tenant", 3, align.Left),
		h("Estado", 1, align.Center),
		h("Solicitante", 3, align.Left),
		h("Solicitud", 1, align.Center),
		h("Usuarios", 1, align.Center),
		h("Creado", 2, align.Center),
		h("Eliminado", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRow(s *entity.TenantSummary, striped bool) core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	deleted := "—"
	if s.DeletedAt != nil {
		deleted = s.DeletedAt.Format("02/01/2006")
	}
	r := row.New(7).Add(
		cell(s.Name, 3, align.Left),
		cell(string(s.State), 1, align.Center),
		cell(nonEmpty(s.RequestEmail, "—"), 3, align.Left),
		cell(nonEmpty(s.RequestStatus, "directa"), 1, align.Center),
		cell(fmt.Sprintf("%d", s.UserCount), 1, align.Center),
		cell(s.CreatedAt.Format("02/01/2006"), 2, align.Center),
		cell(deleted, 1, align.Center),
	)
	if striped {
		r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func summaryRow(rows []*entity.TenantSummary) core.Row {
	counts := map[entity.Lifecycle]int{}
	for _, s := range rows {
		counts[s.State]++
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Activos: %d   |   Inactivos: %d   |   Eliminados: %d",
			counts[entity.LifecycleActive], counts[entity.LifecycleInactive], counts[entity.LifecycleDeleted],
		), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorPrimary}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
