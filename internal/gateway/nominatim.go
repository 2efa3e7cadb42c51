package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// AddressSuggester is the interface for the address autocomplete provider.
type AddressSuggester interface {
	Suggest(ctx context.Context, partial string) ([]string, error)
}

// NominatimSuggester implements AddressSuggester against the OpenStreetMap
// Nominatim search API.
type NominatimSuggester struct {
	baseURL string
	client  *http.Client
}

// NewNominatimSuggester creates a suggester. An empty baseURL uses the
// public Nominatim instance.
func NewNominatimSuggester(baseURL string) *NominatimSuggester {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimSuggester{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

var _ AddressSuggester = (*NominatimSuggester)(nil)

// Suggest returns display names matching the partial address.
func (s *NominatimSuggester) Suggest(ctx context.Context, partial string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=5&q=%s", s.baseURL, url.QueryEscape(partial))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "rentndrive/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim search: unexpected status %d", resp.StatusCode)
	}

	var results []struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, r.DisplayName)
	}
	return suggestions, nil
}
