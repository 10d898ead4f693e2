package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// AllocationCreatedEvent is published when an initial allocation is derived.
type AllocationCreatedEvent struct {
	AllocationID     string             `json:"allocation_id"`
	PinnedCategoryID string             `json:"pinned_category_id,omitempty"`
	Shares           []allocation.Entry `json:"shares"`
	ImpactScore      int                `json:"impact_score"`
	Timestamp        time.Time          `json:"timestamp"`
}

// AllocationRebalancedEvent is published after every accepted slider edit.
type AllocationRebalancedEvent struct {
	AllocationID   string             `json:"allocation_id"`
	ChangedID      string             `json:"changed_id"`
	RequestedValue int                `json:"requested_value"`
	AppliedValue   int                `json:"applied_value"`
	Shares         []allocation.Entry `json:"shares"`
	ImpactScore    int                `json:"impact_score"`
	Timestamp      time.Time          `json:"timestamp"`
}

type CatalogReloadedEvent struct {
	CategoryIDs []string  `json:"category_ids"`
	Timestamp   time.Time `json:"timestamp"`
}
