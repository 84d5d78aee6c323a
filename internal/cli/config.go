package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"assignmenttracker/internal/filter"
)

const (
	defaultAPIURL    = "http://localhost:8080/api"
	defaultTimezone  = "Local"
	defaultWeekStart = "monday"
	defaultTimeout   = "10s"
)

// FilterConfig is the list view used when no filter flags are given
type FilterConfig struct {
	ShowCompleted *bool  `yaml:"show_completed,omitempty"`
	Priority      string `yaml:"priority"`
	Subject       string `yaml:"subject"`
	SortBy        string `yaml:"sort_by"`
	Direction     string `yaml:"direction"`
}

// Config is the tracker CLI configuration file
type Config struct {
	// APIURL is the root of the REST API, prefix included.
	APIURL string `yaml:"api_url"`

	// Timezone is the IANA zone used to read and print dates. "Local" uses the system zone.
	Timezone string `yaml:"timezone"`

	// WeekStart is "monday" or "sunday".
	WeekStart string `yaml:"week_start"`

	// Timeout bounds every HTTP request, e.g. "10s".
	Timeout string `yaml:"timeout"`

	Filters FilterConfig `yaml:"filters"`
}

// DefaultConfig returns the configuration written on first run
func DefaultConfig() *Config {
	show := true
	return &Config{
		APIURL:    defaultAPIURL,
		Timezone:  defaultTimezone,
		WeekStart: defaultWeekStart,
		Timeout:   defaultTimeout,
		Filters: FilterConfig{
			ShowCompleted: &show,
			Priority:      filter.PriorityAll,
			SortBy:        string(filter.SortByDueDate),
			Direction:     string(filter.Ascending),
		},
	}
}

// Normalize fills in missing or unusable values so that hand-edited files
// still behave.
func (c *Config) Normalize() {
	c.APIURL = strings.TrimSuffix(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if _, err := time.LoadLocation(c.Timezone); c.Timezone == "" || err != nil {
		c.Timezone = defaultTimezone
	}

	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = defaultWeekStart
	}

	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.Filters.ShowCompleted == nil {
		show := true
		c.Filters.ShowCompleted = &show
	}
	switch c.Filters.Priority {
	case filter.PriorityAll, "low", "medium", "high":
	default:
		c.Filters.Priority = filter.PriorityAll
	}
	switch filter.SortField(c.Filters.SortBy) {
	case filter.SortByDueDate, filter.SortByPriority, filter.SortByCreatedAt:
	default:
		c.Filters.SortBy = string(filter.SortByDueDate)
	}
	switch filter.Direction(c.Filters.Direction) {
	case filter.Ascending, filter.Descending:
	default:
		c.Filters.Direction = string(filter.Ascending)
	}
}

// Location resolves Timezone. Normalize guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// WeekStartDay is the first column of the calendar
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// RequestTimeout is the parsed Timeout
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultTimeout)
	}
	return d
}

// FilterOptions turns the configured default filters into engine options
func (c *Config) FilterOptions() filter.Options {
	opts := filter.DefaultOptions()
	if c.Filters.ShowCompleted != nil {
		opts.ShowCompleted = *c.Filters.ShowCompleted
	}
	if c.Filters.Priority != "" {
		opts.Priority = c.Filters.Priority
	}
	opts.Subject = c.Filters.Subject
	if c.Filters.SortBy != "" {
		opts.SortBy = filter.SortField(c.Filters.SortBy)
	}
	if c.Filters.Direction != "" {
		opts.Direction = filter.Direction(c.Filters.Direction)
	}
	return opts
}

// DefaultConfigPath is ~/.config/tracker/config.yaml, or ./tracker.yaml when
// there is no user config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tracker.yaml"
	}
	return filepath.Join(dir, "tracker", "config.yaml")
}

// LoadConfig reads the YAML file at path. On first run the file doesn't
// exist yet; a default one is written with 0600 permissions and returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := SaveConfig(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// SaveConfig writes cfg atomically with 0600 permissions
func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tracker-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
