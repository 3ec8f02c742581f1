package ports

import (
	"time"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// TenantReportRenderer genera el PDF del listado de tenants.
type TenantReportRenderer interface {
	RenderTenantReport(rows []*entity.TenantSummary, generatedAt time.Time) ([]byte, error)
}
