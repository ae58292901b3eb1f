// Package backend defines the entity API that Flow and Page records live
// behind, plus a per-project read cache over it.
package backend

import (
	"context"

	"github.com/takak2166/appstruct/internal/models"
)

//go:generate mockgen -source=backend.go -destination=mock_backend/mock_backend.go -package=mock_backend

// Backend is the hosted entity API used for flows and pages
type Backend interface {
	ListFlows(ctx context.Context, projectID string) ([]models.Flow, error)
	CreateFlow(ctx context.Context, flow models.Flow) (models.Flow, error)
	DeleteFlow(ctx context.Context, id string) error

	ListPages(ctx context.Context, projectID string) ([]models.Page, error)
	CreatePage(ctx context.Context, page models.Page) (models.Page, error)
	DeletePage(ctx context.Context, id string) error
}
