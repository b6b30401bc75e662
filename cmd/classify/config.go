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
	Lexicon    string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.ConfigPath, "config", "", "YAML config file (defaults apply when empty)")
	fs.StringVar(&o.In, "in", "", "dataset artifact to read (overrides classify.input)")
	fs.StringVar(&o.Out, "out", "", "sentiment artifact to write (overrides classify.output)")
	fs.StringVar(&o.Lexicon, "lexicon", "", "token<TAB>score lexicon file (overrides classify.lexicon)")

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
		cfg.Classify.Input = o.In
	}
	if o.Out != "" {
		cfg.Classify.Output = o.Out
	}
	if o.Lexicon != "" {
		cfg.Classify.Lexicon = o.Lexicon
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
