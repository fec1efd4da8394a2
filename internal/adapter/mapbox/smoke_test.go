//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/oregon-fire-report/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Downtown Bend, OR.
	result, err := c.ReverseGeocode(context.Background(), 44.0582, -121.3153)
	require.NoError(t, err)

	assert.Contains(t, result.FormattedAddress, "Oregon")
	assert.Equal(t, "Bend", result.PlaceName)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_ReverseGeocode_Wilderness(t *testing.T) {
	c := smokeClient(t)

	// Kalmiopsis Wilderness, inside the 2002 Biscuit fire perimeter. The
	// nearest locality may be far away, so only check the call succeeds.
	_, err := c.ReverseGeocode(context.Background(), 42.31, -123.77)
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	// First call: cache miss, real API call.
	r1, err := cached.ReverseGeocode(context.Background(), 45.5152, -122.6784)
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Portland")

	// Second call: cache hit, no API call.
	r2, err := cached.ReverseGeocode(context.Background(), 45.5152, -122.6784)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
