package ports

import "transcheck/internal/domain"

// ReportExporter renders a finished run into a downloadable format.
type ReportExporter interface {
	Format() string
	ContentType() string
	Export(run *domain.Run) ([]byte, error)
}
