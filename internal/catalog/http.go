package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// HTTPSource fetches the catalog from the content-management service.
type HTTPSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPSource(baseURL, token string) *HTTPSource {
	return &HTTPSource{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// categoryResponse is the content service's representation. Position drives
// ordering; entries without one follow all positioned entries, in the order
// they were sent.
type categoryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Urgency     string `json:"urgency"`
	ImpactScore int    `json:"impact_score"`
	Position    *int   `json:"position,omitempty"`
	Published   *bool  `json:"published,omitempty"`
}

func positionLess(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

func (s *HTTPSource) Categories(ctx context.Context) ([]allocation.Category, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/api/v1/donation-categories", nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("content service: %d %s", resp.StatusCode, string(body))
	}

	var raw []categoryResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	sort.SliceStable(raw, func(i, j int) bool { return positionLess(raw[i].Position, raw[j].Position) })

	var categories []allocation.Category
	for _, r := range raw {
		if r.Published != nil && !*r.Published {
			continue
		}
		categories = append(categories, allocation.Category{
			ID:              r.ID,
			Name:            r.Title,
			Urgency:         allocation.ParseUrgency(r.Urgency),
			BaseImpactScore: r.ImpactScore,
		})
	}
	if err := allocation.ValidateCatalog(categories); err != nil {
		return nil, err
	}
	return categories, nil
}
