package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/ghdash.db" description:"Path to the SQLite database file"`

	// Polling configuration
	UsersFile      string `long:"users-file" env:"USERS_FILE" default:"./users.txt" description:"File listing tracked users, one per line"`
	Token          string `long:"token" env:"GITHUB_TOKEN" description:"GitHub API token for authenticated requests (optional)"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`
	MaxRetries     int    `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"Retry attempts for transient request failures"`
	MaxPages       int    `long:"max-pages" env:"MAX_PAGES" default:"10" description:"Maximum event pages fetched per user per run"`
	PolicyFile     string `long:"policy-file" env:"POLICY_FILE" description:"YAML file tuning the adaptive poll interval (optional)"`

	// HTTP server configuration
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve command)"`

	// Output configuration
	OutputFile string `long:"output" env:"OUTPUT_FILE" default:"./index.html" description:"Rendered page output path (build command)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ghdash/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Command string `positional-arg-name:"command" description:"Command to run: fetch, build or serve"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

// Load parses command-line flags and environment variables, returning the
// command name alongside the configuration. A nil Cfg with nil error means
// help was requested.
func Load() (*Cfg, string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, "", nil
			}
		}
		return nil, "", fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		UsersFile:      raw.UsersFile,
		Token:          raw.Token,
		RequestTimeout: time.Duration(raw.RequestTimeout) * time.Second,
		MaxRetries:     raw.MaxRetries,
		MaxPages:       raw.MaxPages,
		PolicyFile:     raw.PolicyFile,
		Port:           raw.Port,
		OutputFile:     raw.OutputFile,
		UserAgent:      raw.UserAgent,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	policy, err := loadPolicy(raw.PolicyFile)
	if err != nil {
		return nil, "", err
	}
	cfg.Policy = policy

	globalCfg = cfg

	return cfg, raw.Args.Command, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// DefaultPolicy bounds the adaptive poll interval when no policy file is
// given. The floor matches the API's unauthenticated X-Poll-Interval hint.
func DefaultPolicy() Policy {
	return Policy{
		MinInterval: 60 * time.Second,
		MaxInterval: 30 * time.Minute,
	}
}

func loadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()

	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if err := validatePolicy(policy); err != nil {
		return policy, fmt.Errorf("invalid policy %s: %w", path, err)
	}

	return policy, nil
}

func validatePolicy(p Policy) error {
	if p.MinInterval <= 0 {
		return fmt.Errorf("min_interval must be positive")
	}
	if p.MaxInterval < p.MinInterval {
		return fmt.Errorf("max_interval must be >= min_interval")
	}
	return nil
}
