package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/observability"
)

// ErrInvalidSelection is returned for a change the dashboard cannot apply.
var ErrInvalidSelection = errors.New("invalid selection")

// Control names one of the three dashboard inputs.
type Control string

const (
	ControlSizeClass Control = "size_class"
	ControlCause     Control = "cause"
	ControlYear      Control = "year"
)

// Change is a single control update as sent by the UI.
type Change struct {
	Control Control `json:"control"`
	Value   string  `json:"value"`
}

type request struct {
	change *Change
	reply  chan response
}

type response struct {
	render Render
	err    error
}

// Dashboard owns the selection state. All reads and writes of that state
// happen on the goroutine running Run, one request at a time.
type Dashboard struct {
	summary  []analysis.GroupedFire
	options  Options
	requests chan request
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool

	// Owned by Run.
	selection Selection
	current   Render
}

// New creates a Dashboard over an immutable grouped summary. The initial
// selection is the two placeholders and the minimum year.
func New(summary []analysis.GroupedFire, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	opts := BuildOptions(summary)
	sel := Selection{
		SizeClass: domain.SizeClassUnset,
		Cause:     domain.CauseUnset,
		Year:      opts.MinYear,
	}
	return &Dashboard{
		summary:   summary,
		options:   opts,
		requests:  make(chan request),
		logger:    logger,
		metrics:   metrics,
		selection: sel,
		current:   Recompute(summary, sel),
	}
}

// Options returns the control values. They never change after New.
func (d *Dashboard) Options() Options {
	return d.options
}

// CheckReadiness returns nil once the event loop is running.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("dashboard event loop is not running")
	}
	return nil
}

// Run consumes changes until the context is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	d.logger.Info("dashboard started",
		"rows", len(d.summary),
		"min_year", d.options.MinYear,
		"max_year", d.options.MaxYear,
	)
	d.ready.Store(true)
	d.metrics.DashboardReady.Set(1)
	defer func() {
		d.ready.Store(false)
		d.metrics.DashboardReady.Set(0)
	}()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dashboard stopping", "reason", ctx.Err())
			return nil
		case req := <-d.requests:
			req.reply <- d.handle(req.change)
		}
	}
}

func (d *Dashboard) handle(change *Change) response {
	if change == nil {
		return response{render: d.current}
	}

	next, err := d.apply(d.selection, *change)
	if err != nil {
		d.metrics.DashboardUpdates.WithLabelValues(string(change.Control), "rejected").Inc()
		d.logger.Debug("dashboard change rejected", "control", change.Control, "value", change.Value, "error", err)
		return response{render: d.current, err: err}
	}

	start := time.Now()
	d.selection = next
	d.current = Recompute(d.summary, next)
	d.metrics.DashboardRecompute.Observe(time.Since(start).Seconds())
	d.metrics.DashboardUpdates.WithLabelValues(string(change.Control), "applied").Inc()
	d.logger.Debug("dashboard updated", "title", d.current.Title, "bars", len(d.current.Bars))
	return response{render: d.current}
}

// apply returns sel with one control replaced. sel is left untouched on error.
func (d *Dashboard) apply(sel Selection, change Change) (Selection, error) {
	value := strings.TrimSpace(change.Value)
	switch change.Control {
	case ControlSizeClass:
		c, err := domain.ParseSizeClass(value)
		if err != nil {
			return sel, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
		sel.SizeClass = c
	case ControlCause:
		c, err := domain.ParseCauseCategory(value)
		if err != nil {
			return sel, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
		sel.Cause = c
	case ControlYear:
		y, err := strconv.Atoi(value)
		if err != nil {
			return sel, fmt.Errorf("%w: year %q", ErrInvalidSelection, change.Value)
		}
		if len(d.options.Years) == 0 {
			return sel, fmt.Errorf("%w: no years to select", ErrInvalidSelection)
		}
		sel.Year = SnapYear(d.options.Years, y)
	default:
		return sel, fmt.Errorf("%w: unknown control %q", ErrInvalidSelection, change.Control)
	}
	return sel, nil
}

// Apply sends a change to the event loop and waits for the resulting render.
// On ErrInvalidSelection the unchanged render is returned with the error.
func (d *Dashboard) Apply(ctx context.Context, change Change) (Render, error) {
	return d.send(ctx, &change)
}

// Current returns the render of the current selection.
func (d *Dashboard) Current(ctx context.Context) (Render, error) {
	return d.send(ctx, nil)
}

func (d *Dashboard) send(ctx context.Context, change *Change) (Render, error) {
	req := request{change: change, reply: make(chan response, 1)}
	select {
	case d.requests <- req:
	case <-ctx.Done():
		return Render{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.render, resp.err
	case <-ctx.Done():
		return Render{}, ctx.Err()
	}
}
