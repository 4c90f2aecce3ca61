// Package config loads the issuesreport configuration: embedded defaults,
// overlaid by a YAML file, then by environment variables for secrets.
package config

import (
	_ "embed"
	"log/slog"
	"net/url"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Environment variables holding credentials
const (
	EnvServerLogin    = "ISSUESREPORT_SERVER_LOGIN"
	EnvServerPassword = "ISSUESREPORT_SERVER_PASSWORD"
	EnvSlackToken     = "ISSUESREPORT_SLACK_TOKEN"
)

// Config is the complete configuration of a run
type Config struct {
	Project Project `yaml:"project"`
	Server  Server  `yaml:"server"`
	Console Console `yaml:"console"`
	HTML    HTML    `yaml:"html"`
	JSON    JSON    `yaml:"json"`
	Slack   Slack   `yaml:"slack"`
	Cache   Cache   `yaml:"cache"`
}

// Project describes the analyzed project
type Project struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
	// BaseDir is walked for source files
	BaseDir string `yaml:"baseDir"`
	// WorkDir receives generated reports
	WorkDir    string   `yaml:"workDir"`
	Encoding   string   `yaml:"encoding"`
	Exclusions []string `yaml:"exclusions"`
}

// Server locates the rule metadata service
type Server struct {
	URL      string `yaml:"url"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", s.URL),
		slog.Bool("has_login", s.Login != ""),
		slog.Bool("has_password", s.Password != ""),
	)
}

type Console struct {
	Enable bool `yaml:"enable"`
}

type HTML struct {
	Enable bool `yaml:"enable"`
	// Location is the report directory, relative to Project.WorkDir unless absolute
	Location      string `yaml:"location"`
	Name          string `yaml:"name"`
	LightModeOnly bool   `yaml:"lightModeOnly"`
}

type JSON struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type Slack struct {
	Enable  bool   `yaml:"enable"`
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enable", s.Enable),
		slog.String("channel", s.Channel),
		slog.Bool("has_token", s.Token != ""),
	)
}

type Cache struct {
	// Rules bounds the number of rules kept per run
	Rules int `yaml:"rules"`
}

// Default returns the built-in configuration
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic("invalid embedded defaults: " + err.Error())
	}
	return &cfg
}

// Load reads the configuration file at path over the defaults. An empty path
// returns the defaults. Credentials found in the environment win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to parse config", goerr.V("path", path))
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServerLogin); ok {
		c.Server.Login = v
	}
	if v, ok := lookup(EnvServerPassword); ok {
		c.Server.Password = v
	}
	if v, ok := lookup(EnvSlackToken); ok {
		c.Slack.Token = v
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.Project.WorkDir == "" {
		return goerr.New("project work directory is required")
	}
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return goerr.New("invalid server url", goerr.V("url", c.Server.URL))
		}
	}
	if c.HTML.Enable {
		if c.HTML.Location == "" {
			return goerr.New("html report location is required")
		}
		if c.HTML.Name == "" {
			return goerr.New("html report name is required")
		}
	}
	if c.JSON.Enable && c.JSON.Path == "" {
		return goerr.New("json report path is required")
	}
	if c.Slack.Enable {
		if c.Slack.Token == "" {
			return goerr.New("slack token is required", goerr.V("env", EnvSlackToken))
		}
		if c.Slack.Channel == "" {
			return goerr.New("slack channel is required")
		}
	}
	if c.Cache.Rules < 0 {
		return goerr.New("rule cache size must not be negative", goerr.V("size", c.Cache.Rules))
	}
	return nil
}
