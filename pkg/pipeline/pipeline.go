// Package pipeline runs the four batch stages. Each Run* method reads its
// inputs from artifact files, does its work and writes its output
// atomically, so the binaries under cmd/ only parse flags and call in.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-social/pkg/collector"
	"github.com/dd0wney/cluso-social/pkg/config"
	"github.com/dd0wney/cluso-social/pkg/logging"
	"github.com/dd0wney/cluso-social/pkg/metrics"
	"github.com/dd0wney/cluso-social/pkg/publish"
)

// ReportPublisher uploads the finished report.
type ReportPublisher interface {
	Publish(ctx context.Context, runID, name, contentType string, body []byte) (string, error)
}

// Runner carries what every stage needs.
type Runner struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *metrics.Registry
	RunID   string
	Stdout  io.Writer

	// Source replaces the HTTP client when set.
	Source collector.Source
	// Publisher replaces the S3 publisher when set.
	Publisher ReportPublisher
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the logger instead of a JSON logger on stderr.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.Logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) { r.Metrics = m }
}

// WithStdout redirects human-facing output.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.Stdout = w }
}

// WithSource sets the collector's data source.
func WithSource(s collector.Source) Option {
	return func(r *Runner) { r.Source = s }
}

// WithPublisher sets the report publisher.
func WithPublisher(p ReportPublisher) Option {
	return func(r *Runner) { r.Publisher = p }
}

// New creates a runner for stage with a fresh run id.
func New(stage string, cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		Config: cfg,
		RunID:  uuid.NewString(),
		Stdout: os.Stdout,
	}
	for _, o := range opts {
		o(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewStageLogger(stage, r.RunID, logging.ParseLevel(cfg.LogLevel))
	}
	if r.Metrics == nil {
		r.Metrics = metrics.NewRegistry()
	}
	return r
}

// run times fn, records the stage metrics and flushes the textfile.
func (r *Runner) run(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	timer := logging.StartTimer(r.Logger, stage+" stage")

	if err := r.Config.ValidateFor(stage); err != nil {
		r.Metrics.RecordStage(stage, err, timer.EndError(err))
		r.flushMetrics(stage)
		return err
	}

	err := fn(ctx)
	if err != nil {
		r.Metrics.RecordStage(stage, err, timer.EndError(err))
	} else {
		r.Metrics.RecordStage(stage, nil, timer.End())
	}
	r.flushMetrics(stage)
	return err
}

func (r *Runner) flushMetrics(stage string) {
	path := TextfilePath(r.Config.Metrics.Textfile, stage)
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.Logger.Warn("metrics directory", logging.Path(path), logging.Error(err))
		return
	}
	if err := r.Metrics.WriteTextfile(path); err != nil {
		r.Logger.Warn("metrics textfile not written", logging.Path(path), logging.Error(err))
	}
}

// TextfilePath gives each stage its own textfile next to base, so stages
// sharing one config do not overwrite each other:
// "m/cluso.prom" becomes "m/cluso_cluster.prom".
func TextfilePath(base, stage string) string {
	if base == "" {
		return ""
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + stage + ext
}

func publishOptions(cfg config.PublishConfig) publish.Options {
	return publish.Options{
		Bucket:          cfg.Bucket,
		Prefix:          cfg.Prefix,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	}
}
