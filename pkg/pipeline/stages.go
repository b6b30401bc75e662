package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dd0wney/cluso-social/pkg/algorithms"
	"github.com/dd0wney/cluso-social/pkg/artifact"
	"github.com/dd0wney/cluso-social/pkg/collector"
	"github.com/dd0wney/cluso-social/pkg/config"
	"github.com/dd0wney/cluso-social/pkg/dataset"
	"github.com/dd0wney/cluso-social/pkg/graph"
	"github.com/dd0wney/cluso-social/pkg/logging"
	"github.com/dd0wney/cluso-social/pkg/parallel"
	"github.com/dd0wney/cluso-social/pkg/publish"
	"github.com/dd0wney/cluso-social/pkg/report"
	"github.com/dd0wney/cluso-social/pkg/sentiment"
	"github.com/dd0wney/cluso-social/pkg/social"
	"github.com/dd0wney/cluso-social/pkg/visualization"
)

// ReportName is the object name of the published report.
const ReportName = "summary.txt"

// RunCollect reads the seed file, queries the API and writes the dataset.
func (r *Runner) RunCollect(ctx context.Context) error {
	return r.run(ctx, config.StageCollect, r.collect)
}

func (r *Runner) collect(ctx context.Context) error {
	cfg := r.Config.Collect

	seeds, err := collector.ReadSeedsFile(cfg.Seeds)
	if err != nil {
		return err
	}
	r.Logger.Info("seeds loaded", logging.Path(cfg.Seeds), logging.Count(len(seeds)))

	source := r.Source
	if source == nil {
		source = social.New(cfg.APIBaseURL,
			social.WithBearerToken(cfg.BearerToken),
			social.WithTimeout(cfg.Timeout),
			social.WithObserver(r.Metrics.RecordAPIRequest))
	}

	c := collector.New(source, collector.Limits{MaxFriends: cfg.MaxFriends, MaxPosts: cfg.MaxPosts}, r.Logger)
	ds, err := c.Collect(ctx, seeds)
	if err != nil {
		return err
	}

	if _, err := artifact.Write(cfg.Output, dataset.Kind, r.RunID, ds); err != nil {
		return err
	}

	friends := 0
	for _, u := range ds.Users {
		friends += len(u.FriendIDs)
	}
	r.Metrics.SetCollected(len(ds.Users), len(ds.Posts), friends)
	r.Logger.Info("dataset written",
		logging.Path(cfg.Output),
		logging.Int("users", len(ds.Users)),
		logging.Int("posts", len(ds.Posts)))
	return nil
}

// RunCluster builds the social graph from the dataset and partitions it.
func (r *Runner) RunCluster(ctx context.Context) error {
	return r.run(ctx, config.StageCluster, r.cluster)
}

func (r *Runner) cluster(ctx context.Context) error {
	cfg := r.Config.Cluster

	ds, err := r.readDataset(cfg.Input)
	if err != nil {
		return err
	}

	g := graph.Build(ds.Users, graph.BuildOptions{MinCommon: cfg.MinCommon, MinDegree: cfg.MinDegree})
	r.Metrics.SetGraph(g.NodeCount(), g.EdgeCount())

	target := TargetComponents(cfg.TargetComponents, len(ds.Users))
	workers := cfg.Workers
	if workers == 0 {
		workers = parallel.DefaultWorkers()
	}
	r.Logger.Info("graph built",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("target_components", target),
		logging.Int("workers", workers))

	p, err := algorithms.GirvanNewmanContext(ctx, g, algorithms.GirvanNewmanOptions{
		TargetComponents: target,
		MaxDepth:         cfg.MaxDepth,
		Workers:          workers,
		OnRemove: func(step algorithms.RemovedEdge) {
			r.Metrics.BetweennessRun.Inc()
			r.Logger.Debug("edge removed",
				logging.Edge(step.Edge.From, step.Edge.To),
				logging.Float64("betweenness", step.Score),
				logging.Int("components", step.Components))
		},
	})
	if err != nil {
		return err
	}

	if _, err := artifact.Write(cfg.Output, algorithms.Kind, r.RunID, p); err != nil {
		return err
	}

	r.Metrics.SetPartition(len(p.Removed), len(p.Communities), len(p.Outliers), p.Modularity)
	r.Logger.Info("partition written",
		logging.Path(cfg.Output),
		logging.Int("communities", len(p.Communities)),
		logging.Int("outliers", len(p.Outliers)),
		logging.Int("edges_removed", len(p.Removed)),
		logging.Float64("modularity", p.Modularity))

	if cfg.Drawing != "" {
		if err := writeDrawing(cfg.Drawing, cfg.Layout, g, p, ds.ScreenNames()); err != nil {
			return err
		}
		r.Logger.Info("drawing written", logging.Path(cfg.Drawing), logging.String("layout", cfg.Layout))
	}
	return nil
}

func writeDrawing(path, layout string, g *graph.Graph, p *algorithms.Partition, names map[string]string) error {
	lc := visualization.DefaultLayoutConfig()
	l, err := visualization.NewLayout(layout, lc)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	err = visualization.RenderSVG(&buf, visualization.Drawing{
		Graph:     g,
		Positions: l.ComputeLayout(g),
		Partition: p,
		Labels:    names,
		Width:     lc.Width,
		Height:    lc.Height,
	})
	if err != nil {
		return fmt.Errorf("render drawing: %w", err)
	}
	return artifact.WriteFile(path, buf.Bytes())
}

// TargetComponents resolves the configured component target: 0 means one
// component per collected user, and the result is never below 1.
func TargetComponents(configured, users int) int {
	if configured > 0 {
		return configured
	}
	if users > 0 {
		return users
	}
	return 1
}

// RunClassify scores every collected post against the lexicon.
func (r *Runner) RunClassify(ctx context.Context) error {
	return r.run(ctx, config.StageClassify, r.classify)
}

func (r *Runner) classify(ctx context.Context) error {
	cfg := r.Config.Classify

	ds, err := r.readDataset(cfg.Input)
	if err != nil {
		return err
	}

	lex, stats, err := sentiment.LoadLexiconFile(cfg.Lexicon)
	if err != nil {
		return err
	}
	source := cfg.Lexicon
	if source == "" {
		source = "embedded"
	}
	r.Logger.Info("lexicon loaded",
		logging.String("source", source),
		logging.Int("entries", stats.Entries),
		logging.Int("skipped_phrases", stats.SkippedPhrase))

	res := sentiment.NewResult(ds.Posts, lex, source, stats)
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := artifact.Write(cfg.Output, sentiment.Kind, r.RunID, res); err != nil {
		return err
	}

	counts := make(map[string]int, len(res.Tally.Counts))
	for l, n := range res.Tally.Counts {
		counts[string(l)] = n
	}
	r.Metrics.SetSentiment(counts, stats.Entries)
	r.Logger.Info("sentiment written",
		logging.Path(cfg.Output),
		logging.Int("positive", res.Tally.Counts[sentiment.Positive]),
		logging.Int("negative", res.Tally.Counts[sentiment.Negative]),
		logging.Int("neutral", res.Tally.Counts[sentiment.Neutral]))
	return nil
}

// RunSummarize renders the report to stdout, optionally to a file, and
// optionally uploads it.
func (r *Runner) RunSummarize(ctx context.Context) error {
	return r.run(ctx, config.StageSummarize, r.summarize)
}

func (r *Runner) summarize(ctx context.Context) error {
	cfg := r.Config.Summarize

	s, err := report.Load(report.Inputs{
		Dataset:   cfg.Dataset,
		Partition: cfg.Partition,
		Sentiment: cfg.Sentiment,
	}, r.Logger)
	if err != nil {
		return err
	}
	if !cfg.Examples {
		clear(s.Examples)
	}

	text := report.Plain(s)
	if cfg.Styled {
		_, err = fmt.Fprint(r.Stdout, report.Styled(s))
	} else {
		_, err = fmt.Fprint(r.Stdout, text)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.Output != "" {
		if err := artifact.WriteFile(cfg.Output, []byte(text)); err != nil {
			return err
		}
		r.Logger.Info("report written", logging.Path(cfg.Output))
	}

	if !r.Config.Publish.Enabled {
		return nil
	}
	pub := r.Publisher
	if pub == nil {
		s3pub, err := publish.NewS3(ctx, publishOptions(r.Config.Publish), r.Logger)
		if err != nil {
			return err
		}
		pub = s3pub
	}
	_, err = pub.Publish(ctx, r.RunID, ReportName, "text/plain; charset=utf-8", []byte(text))
	return err
}

func (r *Runner) readDataset(path string) (*dataset.Dataset, error) {
	var ds dataset.Dataset
	header, err := artifact.Read(path, dataset.Kind, &ds)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	r.Logger.Info("dataset loaded",
		logging.Path(path),
		logging.String("source_run_id", header.RunID),
		logging.Int("users", len(ds.Users)),
		logging.Int("posts", len(ds.Posts)))
	return &ds, nil
}
