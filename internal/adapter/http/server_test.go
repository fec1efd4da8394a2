package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/oregon-fire-report/internal/adapter/http"
	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/dashboard"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/observability"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func summary() []analysis.GroupedFire {
	return []analysis.GroupedFire{
		{FireName: "TestFire", FireYear: 2020, Cause: domain.CauseHuman, SizeClass: domain.SizeA, Acres: 12.5},
		{FireName: "Cedar", FireYear: 2020, Cause: domain.CauseHuman, SizeClass: domain.SizeA, Acres: 0.2},
		{FireName: "Ridge", FireYear: 2018, Cause: domain.CauseLightning, SizeClass: domain.SizeB, Acres: 3},
	}
}

func newTestServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	d := dashboard.New(summary(), discard(), observability.NewMetricsForTesting())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx) //nolint:errcheck // returns nil on cancel
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return d.CheckReadiness(context.Background()) == nil }, time.Second, 5*time.Millisecond)
	return httpadapter.NewServer(":0", d, discard())
}

func do(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenRunning(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503BeforeRun(t *testing.T) {
	d := dashboard.New(summary(), discard(), observability.NewMetricsForTesting())
	srv := httpadapter.NewServer(":0", d, discard())

	rec := do(srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestOptions(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/api/options", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts dashboard.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []domain.SizeClass{domain.SizeA, domain.SizeB}, opts.SizeClasses)
	assert.Equal(t, 2018, opts.MinYear)
	assert.Equal(t, 2020, opts.MaxYear)
}

func TestFigureInitialState(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/api/figure", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var r dashboard.Render
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "Oregon Class Size Class Size Fires in 2018 (Cause: Causes)", r.Title)
	assert.Empty(t, r.Bars)
}

func TestSelectionSequence(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"control":"size_class","value":"A"}`,
		`{"control":"cause","value":"Human"}`,
		`{"control":"year","value":"2020"}`,
	} {
		rec := do(srv, http.MethodPost, "/api/selection", body)
		require.Equal(t, http.StatusOK, rec.Code, body)
	}

	rec := do(srv, http.MethodGet, "/api/figure", "")
	var r dashboard.Render
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "Oregon Class Size A Fires in 2020 (Cause: Human)", r.Title)
	assert.Equal(t, []dashboard.Bar{{Label: "Cedar", Value: 0.2}, {Label: "TestFire", Value: 12.5}}, r.Bars)
}

func TestSelectionInvalidValue(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/selection", `{"control":"size_class","value":"Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string           `json:"error"`
		Figure dashboard.Render `json:"figure"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "invalid selection")
	assert.Equal(t, domain.SizeClassUnset, body.Figure.Selection.SizeClass)
}

func TestSelectionMalformedBody(t *testing.T) {
	rec := do(newTestServer(t), http.MethodPost, "/api/selection", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartPNG(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/chart.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
}

func TestIndexPage(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, `<option value="Class Size">Class Size</option>`)
	assert.Contains(t, page, `<option value="Lightning"`)
	assert.NotContains(t, page, `value="Under Investigation"`, "cause options come from the data only")
	assert.Contains(t, page, `min="2018" max="2020"`)
}

type stoppedDashboard struct{}

func (stoppedDashboard) CheckReadiness(context.Context) error { return errors.New("stopped") }
func (stoppedDashboard) Options() dashboard.Options            { return dashboard.Options{} }
func (stoppedDashboard) Current(context.Context) (dashboard.Render, error) {
	return dashboard.Render{}, context.DeadlineExceeded
}
func (stoppedDashboard) Apply(context.Context, dashboard.Change) (dashboard.Render, error) {
	return dashboard.Render{}, context.DeadlineExceeded
}

func TestFigureUnavailableWhenLoopStopped(t *testing.T) {
	srv := httpadapter.NewServer(":0", stoppedDashboard{}, discard())

	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodGet, "/api/figure", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodPost, "/api/selection", `{"control":"year","value":"2020"}`).Code)
}
