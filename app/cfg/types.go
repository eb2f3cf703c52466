package cfg

import "time"

type Cfg struct {
	// Storage configuration
	DBPath string

	// Polling configuration
	UsersFile      string
	Token          string
	RequestTimeout time.Duration
	MaxRetries     int
	MaxPages       int
	PolicyFile     string
	Policy         Policy

	// HTTP server configuration
	Port string

	// Output configuration
	OutputFile string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}

// Policy tunes how the poll interval widens as the shared quota tightens.
// The exact curve is configurable; only the direction is a contract (more
// remaining budget means a shorter interval).
type Policy struct {
	MinInterval time.Duration `yaml:"min_interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
}
