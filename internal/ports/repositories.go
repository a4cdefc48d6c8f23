package ports

import (
	"context"

	"envrisk/internal/domain"
)

// SiteRepository stores assessment sites.
type SiteRepository interface {
	CreateSite(ctx context.Context, site domain.Site) (id string, err error)
	GetSite(ctx context.Context, id string) (domain.Site, error)
}

// AssessmentRepository manages assessment records and their results.
type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, a domain.Assessment) (id string, err error)
	GetAssessment(ctx context.Context, id string) (domain.Assessment, error)
	AssessmentStatus(ctx context.Context, id string) (status string, progress float64, err error)
	StoreResult(ctx context.Context, id string, result []byte, degraded bool) error
}
