package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/drag"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "sortable.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTitle is the page title of the demo list.
	DefaultTitle = "Sortable"
)

// Config represents the complete sortable.json configuration.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `json:"server,omitempty"`

	// List describes the list served on /.
	List ListConfig `json:"list,omitempty"`

	// Drag holds the drag controller options.
	Drag DragConfig `json:"drag,omitempty"`

	// Session contains per-connection settings.
	Session SessionConfig `json:"session,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ShutdownTimeout is a Go duration, e.g. "10s".
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// AllowedOrigins restricts WebSocket upgrades. Empty allows any origin.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// ListConfig describes the served list.
type ListConfig struct {
	Title string   `json:"title,omitempty"`
	Items []string `json:"items,omitempty"`

	// Axis is "vertical" or "horizontal".
	Axis string  `json:"axis,omitempty"`
	Gap  float64 `json:"gap,omitempty"`
}

// DragConfig mirrors drag.Options for the JSON file.
type DragConfig struct {
	Items          string `json:"items,omitempty"`
	Handle         string `json:"handle,omitempty"`
	LockX          bool   `json:"lockX,omitempty"`
	LockY          bool   `json:"lockY,omitempty"`
	ActiveClass    string `json:"activeClass,omitempty"`
	ContainerClass string `json:"containerClass,omitempty"`
	ProxyClass     string `json:"proxyClass,omitempty"`
	ProxyZIndex    int    `json:"proxyZIndex,omitempty"`
}

// SessionConfig contains per-connection settings. Durations use Go syntax.
type SessionConfig struct {
	ReadTimeout       string `json:"readTimeout,omitempty"`
	WriteTimeout      string `json:"writeTimeout,omitempty"`
	HeartbeatInterval string `json:"heartbeatInterval,omitempty"`
	MaxMessageSize    int64  `json:"maxMessageSize,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
			Metrics:         true,
		},
		List: ListConfig{
			Title: DefaultTitle,
			Items: []string{"Apples", "Bread", "Cheese", "Dates", "Eggs"},
			Axis:  "vertical",
		},
		Drag: DragConfig{
			Items:          drag.DefaultItems,
			ActiveClass:    drag.DefaultActiveClass,
			ContainerClass: drag.DefaultContainerClass,
			ProxyClass:     drag.DefaultProxyClass,
			ProxyZIndex:    drag.DefaultProxyZIndex,
		},
		Session: SessionConfig{
			ReadTimeout:       "60s",
			WriteTimeout:      "10s",
			HeartbeatInterval: "30s",
			MaxMessageSize:    64 * 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for sortable.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use the defaults").
				Wrap(err)
		}
		return nil, errors.New(errors.CodeConfigNotFound).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for fields the file zeroed out.
func (c *Config) applyDefaults() {
	d := New()

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}

	if c.List.Title == "" {
		c.List.Title = d.List.Title
	}
	if c.List.Axis == "" {
		c.List.Axis = d.List.Axis
	}

	if c.Drag.Items == "" {
		c.Drag.Items = d.Drag.Items
	}
	if c.Drag.ActiveClass == "" {
		c.Drag.ActiveClass = d.Drag.ActiveClass
	}
	if c.Drag.ContainerClass == "" {
		c.Drag.ContainerClass = d.Drag.ContainerClass
	}
	if c.Drag.ProxyClass == "" {
		c.Drag.ProxyClass = d.Drag.ProxyClass
	}
	if c.Drag.ProxyZIndex == 0 {
		c.Drag.ProxyZIndex = d.Drag.ProxyZIndex
	}

	if c.Session.ReadTimeout == "" {
		c.Session.ReadTimeout = d.Session.ReadTimeout
	}
	if c.Session.WriteTimeout == "" {
		c.Session.WriteTimeout = d.Session.WriteTimeout
	}
	if c.Session.HeartbeatInterval == "" {
		c.Session.HeartbeatInterval = d.Session.HeartbeatInterval
	}
	if c.Session.MaxMessageSize == 0 {
		c.Session.MaxMessageSize = d.Session.MaxMessageSize
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.port %d must be between 0 and 65535", c.Server.Port)
	}

	for field, value := range map[string]string{
		"server.shutdownTimeout":    c.Server.ShutdownTimeout,
		"session.readTimeout":       c.Session.ReadTimeout,
		"session.writeTimeout":      c.Session.WriteTimeout,
		"session.heartbeatInterval": c.Session.HeartbeatInterval,
	} {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("%s %q is not a positive duration", field, value).
				WithExample(`"` + strings.TrimPrefix(field, "session.") + `": "30s"`)
		}
	}

	if c.Session.MaxMessageSize < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("session.maxMessageSize must not be negative")
	}

	switch c.List.Axis {
	case "vertical", "horizontal":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("list.axis %q must be vertical or horizontal", c.List.Axis)
	}
	if c.List.Gap < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("list.gap must not be negative")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}

	return c.DragOptions().Validate()
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownTimeout returns the parsed shutdown timeout, or 10s when invalid.
func (c *Config) ShutdownTimeout() time.Duration {
	return durationOr(c.Server.ShutdownTimeout, 10*time.Second)
}

// ReadTimeout returns the parsed session read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return durationOr(c.Session.ReadTimeout, 60*time.Second)
}

// WriteTimeout returns the parsed session write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return durationOr(c.Session.WriteTimeout, 10*time.Second)
}

// HeartbeatInterval returns the parsed heartbeat interval.
func (c *Config) HeartbeatInterval() time.Duration {
	return durationOr(c.Session.HeartbeatInterval, 30*time.Second)
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// DragOptions converts the drag section to controller options.
func (c *Config) DragOptions() *drag.Options {
	return &drag.Options{
		Items:          c.Drag.Items,
		Handle:         c.Drag.Handle,
		LockX:          c.Drag.LockX,
		LockY:          c.Drag.LockY,
		ActiveClass:    c.Drag.ActiveClass,
		ContainerClass: c.Drag.ContainerClass,
		ProxyClass:     c.Drag.ProxyClass,
		ProxyZIndex:    c.Drag.ProxyZIndex,
	}
}

// Logger builds a slog.Logger writing to stderr with the configured level
// and format.
func (c *Config) Logger() *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level %q must be debug, info, warn or error", s).
			Wrap(err)
	}
	return level, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory holding
// sortable.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest sortable.json above the working
// directory. When there is none it returns the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.HasCode(err, errors.CodeConfigNotFound) {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}
