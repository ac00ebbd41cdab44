package ports

import (
	"context"

	"brandscope/internal/domain"
)

// BrandBackend is the collaborator API that owns brands and their insights.
type BrandBackend interface {
	CreateBrand(ctx context.Context, form domain.BrandIntakeForm) (domain.Brand, error)
	Insights(ctx context.Context, brandID string) (domain.InsightsData, error)
}
