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
	MaxFriends int
	MaxPosts   int
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.ConfigPath, "config", "", "YAML config file (defaults apply when empty)")
	fs.StringVar(&o.In, "in", "", "seed file, one screen name per line (overrides collect.seeds)")
	fs.StringVar(&o.Out, "out", "", "dataset artifact to write (overrides collect.output)")
	fs.IntVar(&o.MaxFriends, "max-friends", 0, "friend ids per seed; 0 keeps collect.max_friends")
	fs.IntVar(&o.MaxPosts, "max-posts", -1, "posts per seed; -1 keeps collect.max_posts")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return o, err
		}
		return o, usageError{err}
	}
	if fs.NArg() > 0 {
		return o, usageError{fmt.Errorf("unexpected arguments: %v", fs.Args())}
	}
	if o.MaxFriends < 0 {
		return o, usageError{fmt.Errorf("-max-friends must not be negative")}
	}
	return o, nil
}

func (o options) load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.In != "" {
		cfg.Collect.Seeds = o.In
	}
	if o.Out != "" {
		cfg.Collect.Output = o.Out
	}
	if o.MaxFriends > 0 {
		cfg.Collect.MaxFriends = o.MaxFriends
	}
	if o.MaxPosts >= 0 {
		cfg.Collect.MaxPosts = o.MaxPosts
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
