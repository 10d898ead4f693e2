package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
	"github.com/MikeSquared-Agency/Pledge/internal/hermes"
)

type AllocationsHandler struct {
	catalog    Catalog
	allocator  *allocation.Allocator
	hermes     hermes.Client
	sliderStep int
	logger     *slog.Logger
}

func NewAllocationsHandler(c Catalog, a *allocation.Allocator, h hermes.Client, sliderStep int, logger *slog.Logger) *AllocationsHandler {
	if sliderStep <= 0 {
		sliderStep = allocation.DefaultStep
	}
	return &AllocationsHandler{catalog: c, allocator: a, hermes: h, sliderStep: sliderStep, logger: logger}
}

type CreateAllocationRequest struct {
	PinnedCategoryID string `json:"pinned_category_id,omitempty"`
	AmountMinor      *int64 `json:"amount_minor,omitempty"`
}

type RebalanceRequest struct {
	AllocationID string                `json:"allocation_id,omitempty"`
	Allocation   allocation.Allocation `json:"allocation"`
	ChangedID    string                `json:"changed_id"`
	NewValue     int                   `json:"new_value"`
	Step         *int                  `json:"step,omitempty"`
	AmountMinor  *int64                `json:"amount_minor,omitempty"`
}

type ImpactRequest struct {
	Allocation allocation.Allocation `json:"allocation"`
}

type SplitRequest struct {
	Allocation  allocation.Allocation `json:"allocation"`
	AmountMinor int64                 `json:"amount_minor"`
}

type AllocationResponse struct {
	AllocationID string                `json:"allocation_id"`
	Allocation   allocation.Allocation `json:"allocation"`
	Shares       []allocation.Entry    `json:"shares"`
	ImpactScore  int                   `json:"impact_score"`
	AppliedValue *int                  `json:"applied_value,omitempty"`
	Split        []allocation.Share    `json:"split,omitempty"`
}

// Create derives the initial allocation.
// POST /api/v1/allocations
func (h *AllocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAllocationRequest
	// An empty body asks for the weighted default.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cats, err := h.catalog.Categories()
	if err != nil {
		writeEngineError(w, "initial", err)
		return
	}

	alloc, err := h.allocator.Initial(cats, req.PinnedCategoryID)
	if err != nil {
		writeEngineError(w, "initial", err)
		return
	}

	resp, err := h.respond(uuid.NewString(), alloc, cats, req.AmountMinor)
	if err != nil {
		writeEngineError(w, "initial", err)
		return
	}
	allocationsTotal.WithLabelValues("initial").Inc()

	h.publish(r.Context(), hermes.SubjectAllocationCreated(resp.AllocationID), resp.AllocationID, hermes.AllocationCreatedEvent{
		AllocationID:     resp.AllocationID,
		PinnedCategoryID: req.PinnedCategoryID,
		Shares:           resp.Shares,
		ImpactScore:      resp.ImpactScore,
		Timestamp:        time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, resp)
}

// Rebalance applies one slider edit to an allocation.
// POST /api/v1/allocations/rebalance
func (h *AllocationsHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	var req RebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ChangedID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "changed_id required"})
		return
	}

	allocationID := req.AllocationID
	if allocationID == "" {
		allocationID = uuid.NewString()
	} else if _, err := uuid.Parse(allocationID); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid allocation_id"})
		return
	}

	step := h.sliderStep
	if req.Step != nil {
		step = *req.Step
	}
	applied := allocation.SnapPercent(req.NewValue, step)

	cats, err := h.catalog.Categories()
	if err != nil {
		writeEngineError(w, "rebalance", err)
		return
	}

	alloc, err := allocation.Rebalance(req.Allocation, cats, req.ChangedID, applied)
	if err != nil {
		writeEngineError(w, "rebalance", err)
		return
	}

	resp, err := h.respond(allocationID, alloc, cats, req.AmountMinor)
	if err != nil {
		writeEngineError(w, "rebalance", err)
		return
	}
	resp.AppliedValue = &applied
	allocationsTotal.WithLabelValues("rebalance").Inc()

	// Each edit is its own event; the id alone would collapse them.
	msgID := allocationID + ":" + uuid.NewString()
	h.publish(r.Context(), hermes.SubjectAllocationRebalanced(allocationID), msgID, hermes.AllocationRebalancedEvent{
		AllocationID:   allocationID,
		ChangedID:      req.ChangedID,
		RequestedValue: req.NewValue,
		AppliedValue:   applied,
		Shares:         resp.Shares,
		ImpactScore:    resp.ImpactScore,
		Timestamp:      time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, resp)
}

// Impact scores an allocation.
// POST /api/v1/allocations/impact
func (h *AllocationsHandler) Impact(w http.ResponseWriter, r *http.Request) {
	var req ImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cats, err := h.catalog.Categories()
	if err != nil {
		writeEngineError(w, "impact", err)
		return
	}

	score, err := allocation.ImpactScore(req.Allocation, cats)
	if err != nil {
		writeEngineError(w, "impact", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"impact_score": score})
}

// Split divides a donation amount according to an allocation.
// POST /api/v1/allocations/split
func (h *AllocationsHandler) Split(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cats, err := h.catalog.Categories()
	if err != nil {
		writeEngineError(w, "split", err)
		return
	}

	shares, err := allocation.Split(req.Allocation, cats, req.AmountMinor)
	if err != nil {
		writeEngineError(w, "split", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"amount_minor": req.AmountMinor,
		"split":        shares,
	})
}

func (h *AllocationsHandler) respond(id string, alloc allocation.Allocation, cats []allocation.Category, amountMinor *int64) (AllocationResponse, error) {
	score, err := allocation.ImpactScore(alloc, cats)
	if err != nil {
		return AllocationResponse{}, err
	}
	impactScores.Observe(float64(score))

	resp := AllocationResponse{
		AllocationID: id,
		Allocation:   alloc,
		Shares:       allocation.Ordered(alloc, cats),
		ImpactScore:  score,
	}
	if amountMinor != nil {
		split, err := allocation.Split(alloc, cats, *amountMinor)
		if err != nil {
			return AllocationResponse{}, err
		}
		resp.Split = split
	}
	return resp, nil
}

func (h *AllocationsHandler) publish(ctx context.Context, subject, msgID string, event interface{}) {
	if h.hermes == nil {
		return
	}
	if err := h.hermes.Publish(ctx, subject, msgID, event); err != nil {
		h.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
