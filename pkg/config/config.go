// Package config loads the YAML configuration shared by the four stage
// binaries. Load applies defaults, then the file, then environment
// overrides, and finally validates the result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-social/pkg/validation"
)

// Environment overrides.
const (
	EnvBearerToken = "CLUSO_SOCIAL_BEARER_TOKEN"
	EnvAPIBaseURL  = "CLUSO_SOCIAL_API_BASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
)

// Stage names accepted by ValidateFor.
const (
	StageCollect   = "collect"
	StageCluster   = "cluster"
	StageClassify  = "classify"
	StageSummarize = "summarize"
)

// Defaults
const (
	DefaultAPIBaseURL = "https://api.twitter.com/1.1"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxFriends = 5000
	DefaultMaxPosts   = 100
	DefaultSeedsPath  = "users.txt"
	DefaultDataset    = "data/dataset.json.sz"
	DefaultPartition  = "data/partition.json.sz"
	DefaultSentiment  = "data/sentiment.json.sz"
	DefaultReport     = "data/summary.txt"
)

// Config is the whole configuration file.
type Config struct {
	LogLevel  string          `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Collect   CollectConfig   `yaml:"collect"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Classify  ClassifyConfig  `yaml:"classify"`
	Summarize SummarizeConfig `yaml:"summarize"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Publish   PublishConfig   `yaml:"publish"`
}

// CollectConfig configures the collector and its API client.
type CollectConfig struct {
	Seeds       string        `yaml:"seeds" validate:"required"`
	Output      string        `yaml:"output" validate:"required"`
	APIBaseURL  string        `yaml:"api_base_url" validate:"required,http_url"`
	BearerToken string        `yaml:"bearer_token"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxFriends  int           `yaml:"max_friends" validate:"min=1,max=5000"`
	MaxPosts    int           `yaml:"max_posts" validate:"min=0,max=100"`
}

// ClusterConfig configures graph construction and partitioning.
type ClusterConfig struct {
	Input  string `yaml:"input" validate:"required"`
	Output string `yaml:"output" validate:"required"`
	// TargetComponents of 0 means one component per seed user.
	TargetComponents int `yaml:"target_components" validate:"min=0"`
	// MaxDepth of 0 computes exact betweenness.
	MaxDepth int `yaml:"max_depth" validate:"min=0"`
	// Workers of 0 uses one betweenness worker per CPU.
	Workers int `yaml:"workers" validate:"min=0"`

	MinCommon int `yaml:"min_common" validate:"min=0"`
	MinDegree int `yaml:"min_degree" validate:"min=0"`

	// Drawing, when set, receives an SVG of the graph coloured by community.
	Drawing string `yaml:"drawing"`
	Layout  string `yaml:"layout" validate:"oneof=force circular"`
}

// ClassifyConfig configures the sentiment classifier. An empty Lexicon uses
// the embedded default.
type ClassifyConfig struct {
	Input   string `yaml:"input" validate:"required"`
	Output  string `yaml:"output" validate:"required"`
	Lexicon string `yaml:"lexicon"`
}

// SummarizeConfig configures the report. An empty Output writes to stdout.
type SummarizeConfig struct {
	Dataset   string `yaml:"dataset" validate:"required"`
	Partition string `yaml:"partition"`
	Sentiment string `yaml:"sentiment"`
	Output    string `yaml:"output"`
	Styled    bool   `yaml:"styled"`
	Examples  bool   `yaml:"examples"`
}

// MetricsConfig names the node-exporter textfile each stage writes, if any.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// PublishConfig uploads the report to S3-compatible storage.
type PublishConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	// Static credentials; when empty the default AWS chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Collect: CollectConfig{
			Seeds:      DefaultSeedsPath,
			Output:     DefaultDataset,
			APIBaseURL: DefaultAPIBaseURL,
			Timeout:    DefaultTimeout,
			MaxFriends: DefaultMaxFriends,
			MaxPosts:   DefaultMaxPosts,
		},
		Cluster: ClusterConfig{
			Input:     DefaultDataset,
			Output:    DefaultPartition,
			MinCommon: 1,
			Layout:    "force",
		},
		Classify: ClassifyConfig{
			Input:  DefaultDataset,
			Output: DefaultSentiment,
		},
		Summarize: SummarizeConfig{
			Dataset:   DefaultDataset,
			Partition: DefaultPartition,
			Sentiment: DefaultSentiment,
			Examples:  true,
		},
		Publish: PublishConfig{
			Region: "us-east-1",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBearerToken); ok && v != "" {
		c.Collect.BearerToken = v
	}
	if v, ok := lookup(EnvAPIBaseURL); ok && v != "" {
		c.Collect.APIBaseURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
}

// Validate checks struct tags, then cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	cv := validation.NewConfigValidator("config")
	cv.MinDuration("collect.timeout", c.Collect.Timeout, time.Second).
		Distinct("outputs", map[string]string{
			"collect.output":   c.Collect.Output,
			"cluster.output":   c.Cluster.Output,
			"cluster.drawing":  c.Cluster.Drawing,
			"classify.output":  c.Classify.Output,
			"summarize.output": c.Summarize.Output,
		}).
		When(c.Publish.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("publish.bucket", c.Publish.Bucket).
				Required("publish.region", c.Publish.Region)
			if c.Publish.Endpoint != "" {
				cv.URL("publish.endpoint", c.Publish.Endpoint)
			}
			if (c.Publish.AccessKeyID == "") != (c.Publish.SecretAccessKey == "") {
				cv.Custom("publish.access_key_id", func() error {
					return errors.New("access_key_id and secret_access_key must be set together")
				})
			}
		})

	return cv.Validate()
}

// ValidateFor adds the rules that only matter when stage runs.
func (c *Config) ValidateFor(stage string) error {
	cv := validation.NewConfigValidator(stage)
	switch stage {
	case StageCollect:
		cv.Required("bearer_token", c.Collect.BearerToken)
	case StageCluster, StageClassify, StageSummarize:
	default:
		cv.Custom("stage", func() error { return fmt.Errorf("unknown stage %q", stage) })
	}
	return cv.Validate()
}
