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
	Partition  string
	Sentiment  string
	Out        string
	Styled     bool
	Publish    bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.ConfigPath, "config", "", "YAML config file (defaults apply when empty)")
	fs.StringVar(&o.In, "in", "", "dataset artifact to read (overrides summarize.dataset)")
	fs.StringVar(&o.Partition, "partition", "", "partition artifact (overrides summarize.partition)")
	fs.StringVar(&o.Sentiment, "sentiment", "", "sentiment artifact (overrides summarize.sentiment)")
	fs.StringVar(&o.Out, "out", "", "also write the plain report here (overrides summarize.output)")
	fs.BoolVar(&o.Styled, "styled", false, "render a styled summary on stdout")
	fs.BoolVar(&o.Publish, "publish", false, "upload the report (requires publish.bucket)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return o, err
		}
		return o, usageError{err}
	}
	if fs.NArg() > 0 {
		return o, usageError{fmt.Errorf("unexpected arguments: %v", fs.Args())}
	}
	return o, nil
}

func (o options) load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.In != "" {
		cfg.Summarize.Dataset = o.In
	}
	if o.Partition != "" {
		cfg.Summarize.Partition = o.Partition
	}
	if o.Sentiment != "" {
		cfg.Summarize.Sentiment = o.Sentiment
	}
	if o.Out != "" {
		cfg.Summarize.Output = o.Out
	}
	if o.Styled {
		cfg.Summarize.Styled = true
	}
	if o.Publish {
		cfg.Publish.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
