// Package collector pulls the seed users, their friend lists and posts
// mentioning them from the social API and assembles a dataset.Dataset.
package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dd0wney/cluso-social/pkg/dataset"
	"github.com/dd0wney/cluso-social/pkg/logging"
	"github.com/dd0wney/cluso-social/pkg/social"
)

// ErrNoSeeds is returned when the seed list is empty.
var ErrNoSeeds = errors.New("no seed users")

// Source is the subset of the social API the collector uses.
type Source interface {
	LookupUser(ctx context.Context, screenName string) (*social.User, error)
	FriendIDs(ctx context.Context, screenName string, count int) ([]string, error)
	SearchPosts(ctx context.Context, query string, count int) ([]social.Post, error)
}

// Limits bounds what is fetched per seed. MaxPosts of 0 skips post search.
type Limits struct {
	MaxFriends int
	MaxPosts   int
}

// ReadSeeds reads one screen name per line. Blank lines and lines starting
// with '#' are skipped, a leading '@' is dropped, and repeated names (case
// insensitive) keep their first occurrence.
func ReadSeeds(r io.Reader) ([]string, error) {
	var seeds []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		name = strings.TrimPrefix(name, "@")
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		seeds = append(seeds, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	return seeds, nil
}

// ReadSeedsFile reads seeds from path.
func ReadSeedsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seeds: %w", err)
	}
	defer f.Close()

	seeds, err := ReadSeeds(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seeds, nil
}

// Collector gathers a dataset from a Source.
type Collector struct {
	source Source
	limits Limits
	logger logging.Logger
}

// New creates a collector. A nil logger discards output.
func New(source Source, limits Limits, logger logging.Logger) *Collector {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Collector{source: source, limits: limits, logger: logger}
}

// Collect runs a collector with no logging.
func Collect(ctx context.Context, source Source, seeds []string, limits Limits) (*dataset.Dataset, error) {
	return New(source, limits, nil).Collect(ctx, seeds)
}

// Collect fetches every seed in order. Any API error aborts the run so a
// partial dataset is never returned.
func (c *Collector) Collect(ctx context.Context, seeds []string) (*dataset.Dataset, error) {
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}

	ds := &dataset.Dataset{
		Seeds: append([]string(nil), seeds...),
		Users: make([]dataset.User, 0, len(seeds)),
	}
	users := make(map[string]string, len(seeds))
	posts := make(map[string]struct{})

	for _, name := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		user, err := c.collectUser(ctx, name)
		if err != nil {
			return nil, err
		}
		if prev, dup := users[user.ID]; dup {
			c.logger.Warn("seed resolves to an already collected user",
				logging.ScreenName(name), logging.UserID(user.ID), logging.String("first_seed", prev))
		} else {
			users[user.ID] = name
			ds.Users = append(ds.Users, *user)
		}

		if c.limits.MaxPosts <= 0 {
			continue
		}
		found, err := c.source.SearchPosts(ctx, name, c.limits.MaxPosts)
		if err != nil {
			return nil, fmt.Errorf("search posts for %s: %w", name, err)
		}
		added := 0
		for _, p := range found {
			if p.ID == "" || p.User.ID == "" {
				c.logger.Debug("skipping post without id or author", logging.ScreenName(name))
				continue
			}
			if _, dup := posts[p.ID]; dup {
				continue
			}
			posts[p.ID] = struct{}{}
			ds.Posts = append(ds.Posts, dataset.Post{
				ID:       p.ID,
				AuthorID: p.User.ID,
				Text:     p.Text,
				Query:    name,
			})
			added++
		}
		c.logger.Info("collected posts", logging.ScreenName(name), logging.Count(added))
	}

	ds.CollectedAt = time.Now().UTC()
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("collected dataset: %w", err)
	}
	return ds, nil
}

func (c *Collector) collectUser(ctx context.Context, name string) (*dataset.User, error) {
	u, err := c.source.LookupUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}

	ids, err := c.source.FriendIDs(ctx, name, c.limits.MaxFriends)
	if err != nil {
		return nil, fmt.Errorf("friend ids for %s: %w", name, err)
	}
	friends := dataset.NormalizeFriends(u.ID, ids)

	c.logger.Info("collected user",
		logging.ScreenName(u.ScreenName),
		logging.UserID(u.ID),
		logging.Int("friends", len(friends)))

	return &dataset.User{
		ID:         u.ID,
		ScreenName: u.ScreenName,
		Name:       u.Name,
		FriendIDs:  friends,
	}, nil
}
