package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/google/uuid"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/chart"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/observability"
)

// Loader reads the full fire record set. A failure means nothing was loaded.
type Loader interface {
	Load() ([]domain.FireRecord, error)
}

// Sink persists a finished report.
type Sink interface {
	Name() string
	Write(ctx context.Context, r *Report) error
}

// Publisher writes cleaned records to a message broker.
type Publisher interface {
	LoadBatch(ctx context.Context, fires []domain.FireRecord) error
}

// LoadClean loads and cleans the record set. An *domain.ImputationError is
// returned together with the cleaned result so callers can decide whether it
// is fatal.
func LoadClean(loader Loader, logger *slog.Logger, metrics *observability.Metrics) ([]domain.FireRecord, domain.CleanResult, error) {
	raw, err := loader.Load()
	if err != nil {
		return nil, domain.CleanResult{}, fmt.Errorf("load fire data: %w", err)
	}
	metrics.RecordsLoaded.Add(float64(len(raw)))

	clean, err := domain.Clean(raw)
	metrics.RowsDropped.Add(float64(clean.DroppedNoCoordinates))
	metrics.AcresImputed.Add(float64(clean.Imputed))
	logger.Info("fire data cleaned",
		"loaded", len(raw),
		"dropped_no_coordinates", clean.DroppedNoCoordinates,
		"acres_imputed", clean.Imputed,
		"remaining", len(clean.Records),
	)
	if err != nil {
		return raw, clean, fmt.Errorf("clean fire data: %w", err)
	}
	return raw, clean, nil
}

// Runner produces a complete report.
type Runner struct {
	loader   Loader
	geocoder domain.Geocoder
	sinks    []Sink
	opts     Options
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRunner creates a Runner. geocoder may be nil to skip place-name
// enrichment of the top fires.
func NewRunner(loader Loader, geocoder domain.Geocoder, sinks []Sink, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		loader:   loader,
		geocoder: geocoder,
		sinks:    sinks,
		opts:     opts.withDefaults(),
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one report. Any load, clean, chart or sink failure aborts the
// run; geocoding failures only degrade the top-fire place names.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	raw, clean, err := LoadClean(r.loader, r.logger, r.metrics)
	if err != nil {
		return nil, err
	}

	rep := Build(clean, len(raw), r.opts)
	rep.RunID = uuid.NewString()
	rep.GeneratedAt = domain.Now()
	if src, ok := r.loader.(interface{ Path() string }); ok {
		rep.Source = src.Path()
	}
	logger := r.logger.With("run_id", rep.RunID)

	for _, pair := range rep.Aliases {
		logger.Info("alias pair checked",
			"primary", pair.Primary.FireName,
			"secondary", pair.Secondary.FireName,
			"distance_km", pair.DistanceKm,
			"reach_km", pair.ReachKm,
			"confirmed", pair.Confirmed,
		)
	}

	if r.geocoder != nil {
		rep.TopFires = domain.EnrichAll(ctx, rep.TopFires, r.geocoder, logger)
	}

	if r.opts.OutputDir != "" {
		paths, err := WriteCharts(r.opts.OutputDir, Figures(rep), r.metrics)
		rep.Charts = paths
		if err != nil {
			return rep, err
		}
		logger.Info("charts written", "dir", r.opts.OutputDir, "count", len(paths))
	}

	for _, s := range r.sinks {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.Write(ctx, rep); err != nil {
			return rep, fmt.Errorf("%s export: %w", s.Name(), err)
		}
		r.metrics.RecordsExported.WithLabelValues(s.Name()).Add(float64(len(rep.Records)))
		logger.Info("report exported", "sink", s.Name())
	}

	r.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	logger.Info("report complete", "records", len(rep.Records), "duration", time.Since(start))
	return rep, nil
}

// Figures returns the report charts in render order.
func Figures(rep *Report) []chart.Figure {
	return []chart.Figure{
		chart.AreaPie(rep.AreaAcres),
		chart.GeneralCauseHistogram(rep.GeneralCauses),
		chart.ClassViolin(domain.SizeA, analysis.FilterClass(rep.Records, domain.SizeA)),
		chart.ClassBox(domain.SizeG, analysis.FilterClass(rep.Records, domain.SizeG)),
		chart.TopFiresBubbleMap(rep.TopFires),
		chart.DensityMap(rep.YearFires, rep.ProjectionYear),
	}
}

// WriteCharts renders each figure to dir/<name>.png. It stops at the first
// failure and returns the paths written so far.
func WriteCharts(dir string, figures []chart.Figure, metrics *observability.Metrics) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(figures))
	for _, fig := range figures {
		path := filepath.Join(dir, fig.Name+".png")
		if err := writeFigure(path, fig); err != nil {
			metrics.ChartsRendered.WithLabelValues(fig.Name, "error").Inc()
			return paths, err
		}
		metrics.ChartsRendered.WithLabelValues(fig.Name, "success").Inc()
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFigure(path string, fig chart.Figure) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return fig.Render(f)
}

// Backoff bounds the retries of a failed publish.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff retries three times, starting at 200ms and capping at 5s.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 200 * time.Millisecond, Max: 5 * time.Second}

// Publish stamps each record with the processing time and hands the set to
// the publisher, retrying with exponential backoff while the broker is
// unavailable.
func Publish(ctx context.Context, fires []domain.FireRecord, pub Publisher, backoff Backoff, logger *slog.Logger) error {
	now := domain.Now()
	out := make([]domain.FireRecord, len(fires))
	for i, f := range fires {
		f.ProcessedAt = now
		out[i] = f
	}

	attempts := max(backoff.Attempts, 1)
	wait := backoff.Initial
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = pub.LoadBatch(ctx, out); err == nil {
			logger.Info("fire records published", "records", len(out), "attempt", attempt)
			return nil
		}
		if ctx.Err() != nil || attempt == attempts {
			break
		}
		logger.Warn("publish failed, retrying", "error", err, "attempt", attempt, "backoff", wait)
		if !sharedretry.SleepWithContext(ctx, wait) {
			break
		}
		wait = sharedretry.NextBackoff(wait, backoff.Max)
	}
	return fmt.Errorf("publish fire records: %w", err)
}
