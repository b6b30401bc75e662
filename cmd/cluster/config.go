package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/dd0wney/cluso-social/pkg/config"
)

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type options struct {
	ConfigPath string
	In         string
	Out        string
	Target     int
	MaxDepth   int
	Drawing    string
	Workers    int
	Layout     string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.ConfigPath, "config", "", "YAML config file (defaults apply when empty)")
	fs.StringVar(&o.In, "in", "", "dataset artifact to read (overrides cluster.input)")
	fs.StringVar(&o.Out, "out", "", "partition artifact to write (overrides cluster.output)")
	fs.IntVar(&o.Target, "k", 0, "target component count; 0 keeps cluster.target_components")
	fs.IntVar(&o.MaxDepth, "max-depth", -1, "betweenness BFS depth bound; -1 keeps cluster.max_depth, 0 is exact")
	fs.IntVar(&o.Workers, "workers", 0, "betweenness workers; 0 keeps cluster.workers")
	fs.StringVar(&o.Layout, "layout", "", "drawing layout, force or circular (overrides cluster.layout)")
	fs.StringVar(&o.Drawing, "drawing", "", "SVG file to draw the partitioned graph into (overrides cluster.drawing)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return o, err
		}
		return o, usageError{err}
	}
	if fs.NArg() > 0 {
		return o, usageError{fmt.Errorf("unexpected arguments: %v", fs.Args())}
	}
	if o.Target < 0 {
		return o, usageError{fmt.Errorf("-k must not be negative")}
	}
	if o.Workers < 0 {
		return o, usageError{fmt.Errorf("-workers must not be negative")}
	}
	return o, nil
}

func (o options) load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.In != "" {
		cfg.Cluster.Input = o.In
	}
	if o.Out != "" {
		cfg.Cluster.Output = o.Out
	}
	if o.Target > 0 {
		cfg.Cluster.TargetComponents = o.Target
	}
	if o.MaxDepth >= 0 {
		cfg.Cluster.MaxDepth = o.MaxDepth
	}
	if o.Workers > 0 {
		cfg.Cluster.Workers = o.Workers
	}
	if o.Drawing != "" {
		cfg.Cluster.Drawing = o.Drawing
	}
	if o.Layout != "" {
		cfg.Cluster.Layout = o.Layout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
