package store

import (
	"context"
	"time"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// CategoryRecord is a donation category as kept by content management.
type CategoryRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Urgency         string    `json:"urgency"`
	BaseImpactScore int       `json:"base_impact_score"`
	Position        int       `json:"position"`
	Active          bool      `json:"active"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Category converts the record to the engine's representation.
func (r CategoryRecord) Category() allocation.Category {
	return allocation.Category{
		ID:              r.ID,
		Name:            r.Name,
		Urgency:         allocation.ParseUrgency(r.Urgency),
		BaseImpactScore: r.BaseImpactScore,
	}
}

type Store interface {
	// Category catalog
	ListCategories(ctx context.Context, includeInactive bool) ([]CategoryRecord, error)
	GetCategory(ctx context.Context, id string) (*CategoryRecord, error)
	UpsertCategory(ctx context.Context, rec *CategoryRecord) error

	Close() error
}
