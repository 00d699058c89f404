package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultListenPort        = 8000
	DefaultWSPath            = "/ws"
	DefaultBroadcastInterval = 10 * time.Second
	DefaultPollTimeout       = 200 * time.Millisecond
	DefaultQueueCapacity     = 64
	DefaultEnqueueTimeout    = 5 * time.Millisecond
	DefaultNetProbeInterval  = 2 * time.Second
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// ListenPort is the TCP port the WebSocket listener binds (default 8000).
	ListenPort int `yaml:"listen_port"`

	// WSPath is the HTTP path that accepts WebSocket upgrades (default "/ws").
	WSPath string `yaml:"ws_path"`

	// BroadcastInterval is the periodic producer's firing period (default 10s).
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// PollTimeout bounds how long one reactor iteration may park waiting
	// for activity (default 200ms). It is also the worst-case latency from
	// work enqueue to work processing.
	PollTimeout time.Duration `yaml:"poll_timeout"`

	// WorkQueue configures the bounded cross-task work channel.
	WorkQueue WorkQueueConfig `yaml:"work_queue"`

	// NetProbeInterval is how often network readiness is re-checked at
	// startup (default 2s).
	NetProbeInterval time.Duration `yaml:"net_probe_interval"`
}

// WorkQueueConfig bounds the cross-task work channel.
type WorkQueueConfig struct {
	// Capacity is the number of work items that may await the reactor
	// (default 64).
	Capacity int `yaml:"capacity"`

	// EnqueueTimeout is the longest a producer waits on a full queue
	// before dropping the item (default 5ms). Keeps producers decoupled
	// from reactor progress.
	EnqueueTimeout time.Duration `yaml:"enqueue_timeout"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation. A missing file is not an error: the
// defaults are returned, so the server runs without any config at all.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			ListenPort:        DefaultListenPort,
			WSPath:            DefaultWSPath,
			BroadcastInterval: DefaultBroadcastInterval,
			PollTimeout:       DefaultPollTimeout,
			WorkQueue: WorkQueueConfig{
				Capacity:       DefaultQueueCapacity,
				EnqueueTimeout: DefaultEnqueueTimeout,
			},
			NetProbeInterval: DefaultNetProbeInterval,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.ListenPort < 0 || s.ListenPort > 65535 {
		return fmt.Errorf("server.listen_port %d is out of range [0, 65535]", s.ListenPort)
	}
	if !strings.HasPrefix(s.WSPath, "/") {
		return fmt.Errorf("server.ws_path %q must start with /", s.WSPath)
	}
	if s.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	if s.PollTimeout <= 0 {
		return fmt.Errorf("server.poll_timeout must be positive")
	}
	if s.WorkQueue.Capacity <= 0 {
		return fmt.Errorf("server.work_queue.capacity must be positive")
	}
	if s.WorkQueue.EnqueueTimeout <= 0 {
		return fmt.Errorf("server.work_queue.enqueue_timeout must be positive")
	}
	if s.NetProbeInterval <= 0 {
		return fmt.Errorf("server.net_probe_interval must be positive")
	}
	return nil
}
