// Package lookup resolves app metadata from the public catalog search
// endpoint. It is a collaborator of the store client: it produces the
// Software record every store operation takes as input.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/store"
)

var ErrAppNotFound = errors.New("app not found")

const defaultBaseURL = "https://itunes.apple.com"

type Service interface {
	LookupApp(ctx context.Context, bundleID string, country string) (*store.Software, error)
}

type lookupService struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*lookupService)

// WithBaseURL overrides the catalog endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(svc *lookupService) {
		svc.baseURL = baseURL
	}
}

func NewLookupService(opts ...Option) *lookupService {
	svc := &lookupService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type lookupResult struct {
	TrackID        int64   `json:"trackId"`
	TrackName      string  `json:"trackName"`
	BundleID       string  `json:"bundleId"`
	Version        string  `json:"version"`
	Price          float64 `json:"price"`
	ArtistName     string  `json:"artistName"`
	ArtworkURL     string  `json:"artworkUrl512"`
	FormattedPrice string  `json:"formattedPrice"`
}

type lookupResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []lookupResult `json:"results"`
}

func (svc *lookupService) LookupApp(ctx context.Context, bundleID string, country string) (*store.Software, error) {
	if _, ok := store.StorefrontID(country); !ok {
		return nil, fmt.Errorf("unsupported country: %s", country)
	}

	query := url.Values{}
	query.Set("bundleId", bundleID)
	query.Set("country", country)
	query.Set("entity", "software")
	query.Set("limit", "1")
	lookupURL := fmt.Sprintf("%s/lookup?%s", svc.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}

	resp, err := svc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup request failed with status: %s", resp.Status)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	if decoded.ResultCount == 0 || len(decoded.Results) == 0 {
		return nil, ErrAppNotFound
	}

	result := decoded.Results[0]
	logger.Logger.Debug().
		Str("bundleId", result.BundleID).
		Int64("trackId", result.TrackID).
		Str("version", result.Version).
		Msg("Resolved app metadata")

	return &store.Software{
		ID:             fmt.Sprintf("%d", result.TrackID),
		BundleID:       result.BundleID,
		Name:           result.TrackName,
		Version:        result.Version,
		Price:          result.Price,
		ArtistName:     result.ArtistName,
		ArtworkURL:     result.ArtworkURL,
		FormattedPrice: result.FormattedPrice,
	}, nil
}
