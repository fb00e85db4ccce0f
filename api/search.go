package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/embershare/seek/core"
)

// uncategorizedLabel is the category name shown for items without one.
const uncategorizedLabel = "Uncategorized"

// SearchRequest is the body of POST /api/search.
// Lat, Lng, and Radius narrow results geographically when all are set.
type SearchRequest struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	Radius     *float64 `json:"radius,omitempty"`
}

// SearchResponse is the body of a POST /api/search response.
// Fallback signals the caller to use a non-semantic search path.
type SearchResponse struct {
	Results  []SearchResultJSON `json:"results"`
	Fallback bool               `json:"fallback"`
}

// SearchResultJSON is the wire projection of one ranked item.
type SearchResultJSON struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	IsBorrow     bool    `json:"is_borrow"`
	Description  string  `json:"description"`
	Quantity     int     `json:"quantity"`
	Available    bool    `json:"available"`
	CreatedAt    string  `json:"created_at"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Address      string  `json:"address"`
	LocationName string  `json:"location_name"`
	OwnerName    string  `json:"owner_name"`
	Picture      string  `json:"picture"`
	Score        float32 `json:"score"`
}

// handleSearch serves POST /api/search.
//
// The endpoint always answers 200 with a fallback-flagged body rather than
// an error status: the client treats any fallback as "do your own
// filtering", so a malformed body degrades the same way an unavailable
// provider does.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("malformed search request", "err", err)
		s.writeJSON(w, http.StatusOK, SearchResponse{Results: []SearchResultJSON{}, Fallback: true})
		return
	}

	resp, err := s.searcher.Search(r.Context(), req.Query, req.Categories)
	if err != nil {
		s.logger.Error("search failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	results := resp.Results
	if req.Lat != nil && req.Lng != nil && req.Radius != nil {
		results = filterByDistance(results, *req.Lat, *req.Lng, *req.Radius)
	}

	out := SearchResponse{
		Results:  make([]SearchResultJSON, 0, len(results)),
		Fallback: resp.Fallback,
	}
	for _, result := range results {
		out.Results = append(out.Results, projectResult(result))
	}

	s.writeJSON(w, http.StatusOK, out)
}

func filterByDistance(results []*core.SearchResult, lat, lng, radiusMiles float64) []*core.SearchResult {
	if radiusMiles <= 0 {
		return results
	}

	kept := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		if HaversineMiles(lat, lng, result.Item.Latitude, result.Item.Longitude) <= radiusMiles {
			kept = append(kept, result)
		}
	}
	return kept
}

func projectResult(result *core.SearchResult) SearchResultJSON {
	item := result.Item

	category := result.CategoryName
	if category == "" {
		category = uncategorizedLabel
	}

	return SearchResultJSON{
		ID:           uint64(item.Id),
		Name:         item.Name,
		Category:     category,
		IsBorrow:     item.IsBorrow,
		Description:  item.Description,
		Quantity:     item.Quantity,
		Available:    item.Available,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		Latitude:     item.Latitude,
		Longitude:    item.Longitude,
		Address:      item.Address,
		LocationName: item.LocationName,
		OwnerName:    item.OwnerName,
		Picture:      item.Picture,
		Score:        result.Score,
	}
}
