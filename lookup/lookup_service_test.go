package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupApp(t *testing.T) {
	t.Parallel()

	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"bundleId": r.URL.Query().Get("bundleId"),
			"country":  r.URL.Query().Get("country"),
			"entity":   r.URL.Query().Get("entity"),
			"limit":    r.URL.Query().Get("limit"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"trackId": 361309726,
				"trackName": "Example App",
				"bundleId": "com.example.app",
				"version": "2.4.1",
				"price": 0,
				"artistName": "Example Inc.",
				"artworkUrl512": "https://is1-ssl.mzstatic.com/image/thumb/example.png",
				"formattedPrice": "Free"
			}]
		}`))
	}))
	defer server.Close()

	svc := NewLookupService(WithBaseURL(server.URL))
	software, err := svc.LookupApp(context.Background(), "com.example.app", "us")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"bundleId": "com.example.app",
		"country":  "us",
		"entity":   "software",
		"limit":    "1",
	}, query)

	assert.Equal(t, "361309726", software.ID)
	assert.Equal(t, "com.example.app", software.BundleID)
	assert.Equal(t, "Example App", software.Name)
	assert.Equal(t, "2.4.1", software.Version)
	assert.Equal(t, float64(0), software.Price)
	assert.Equal(t, "Example Inc.", software.ArtistName)
	assert.Equal(t, "Free", software.FormattedPrice)
}

func TestLookupApp_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer server.Close()

	svc := NewLookupService(WithBaseURL(server.URL))
	_, err := svc.LookupApp(context.Background(), "com.example.missing", "us")
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestLookupApp_UnsupportedCountry(t *testing.T) {
	t.Parallel()

	svc := NewLookupService()
	_, err := svc.LookupApp(context.Background(), "com.example.app", "zz")
	assert.ErrorContains(t, err, "unsupported country")
}

func TestLookupApp_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewLookupService(WithBaseURL(server.URL))
	_, err := svc.LookupApp(context.Background(), "com.example.app", "us")
	assert.Error(t, err)
}
