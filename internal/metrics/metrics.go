// Package metrics exposes Prometheus instruments for view events and model
// operations.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/idilsaglam/todomvc/internal/controller"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/view"
)

type Metrics struct {
	Events          *prometheus.CounterVec
	ModelOps        *prometheus.CounterVec
	ModelOpDuration *prometheus.HistogramVec
	TitleLength     prometheus.Histogram
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todomvc_events_total",
				Help: "Total number of view events handled by the controller",
			},
			[]string{"event", "status"},
		),
		ModelOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todomvc_model_ops_total",
				Help: "Total number of model operations",
			},
			[]string{"op", "status"},
		),
		ModelOpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todomvc_model_op_duration_seconds",
				Help:    "Duration of model operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		TitleLength: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "todomvc_todo_title_length_bytes",
				Help:    "Length distribution of created todo titles",
				Buckets: []float64{10, 50, 100, 500},
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveEvent matches controller.WithEventObserver.
func (m *Metrics) ObserveEvent(event view.Event, err error) {
	m.Events.WithLabelValues(string(event), status(err)).Inc()
}

func (m *Metrics) observeOp(op string, start time.Time, err error) {
	m.ModelOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.ModelOps.WithLabelValues(op, status(err)).Inc()
}

// Instrument wraps next so every operation is counted and timed.
func Instrument(next controller.Model, m *Metrics) controller.Model {
	return &instrumented{next: next, m: m}
}

type instrumented struct {
	next controller.Model
	m    *Metrics
}

func (i *instrumented) Read(ctx context.Context, q model.Query) ([]model.Todo, error) {
	start := time.Now()
	todos, err := i.next.Read(ctx, q)
	i.m.observeOp("read", start, err)
	return todos, err
}

func (i *instrumented) Create(ctx context.Context, title string) (model.Todo, error) {
	start := time.Now()
	t, err := i.next.Create(ctx, title)
	i.m.observeOp("create", start, err)
	if err == nil {
		i.m.TitleLength.Observe(float64(len(t.Title)))
	}
	return t, err
}

func (i *instrumented) Update(ctx context.Context, id int, req model.UpdateRequest) (model.Todo, error) {
	start := time.Now()
	t, err := i.next.Update(ctx, id, req)
	i.m.observeOp("update", start, err)
	return t, err
}

func (i *instrumented) Remove(ctx context.Context, id int) error {
	start := time.Now()
	err := i.next.Remove(ctx, id)
	i.m.observeOp("remove", start, err)
	return err
}

func (i *instrumented) Count(ctx context.Context) (model.Counts, error) {
	start := time.Now()
	c, err := i.next.Count(ctx)
	i.m.observeOp("count", start, err)
	return c, err
}
