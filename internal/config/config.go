package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultSurface      = "web"
	defaultListenAddr   = "127.0.0.1:7391"
	defaultSource       = "mpris"
	defaultMPDAddr      = "localhost:6600"
	defaultLogLevel     = "info"
	defaultArtSize      = 128
	defaultArtCacheSize = 32
)

// Values is the raw configuration as read from file, environment and flags
type Values struct {
	Surface      string   `yaml:"surface" toml:"surface"`
	ListenAddr   string   `yaml:"listen_addr" toml:"listen_addr"`
	Source       string   `yaml:"source" toml:"source"`
	MPDAddr      string   `yaml:"mpd_addr" toml:"mpd_addr"`
	MPDPassword  string   `yaml:"mpd_password" toml:"mpd_password"`
	Players      []string `yaml:"players" toml:"players"`
	LogLevel     string   `yaml:"log_level" toml:"log_level"`
	LogFile      string   `yaml:"log_file" toml:"log_file"`
	ArtSize      int      `yaml:"art_size" toml:"art_size"`
	ArtCacheSize int      `yaml:"art_cache_size" toml:"art_cache_size"`
}

// Defaults returns the built-in configuration
func Defaults() Values {
	return Values{
		Surface:      defaultSurface,
		ListenAddr:   defaultListenAddr,
		Source:       defaultSource,
		MPDAddr:      defaultMPDAddr,
		LogLevel:     defaultLogLevel,
		ArtSize:      defaultArtSize,
		ArtCacheSize: defaultArtCacheSize,
	}
}

// Load builds the configuration: defaults, then the optional file at path,
// then ISLAND_* environment variables (a .env in the working directory is honoured).
func Load(path string) (Values, error) {
	v := Defaults()

	// A missing .env is the normal case
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Values{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if path != "" {
		if err := readFile(expandPath(path), &v); err != nil {
			return Values{}, err
		}
		v.Players = NormalizePlayers(v.Players)
	}

	applyEnv(&v)

	if err := v.Validate(); err != nil {
		return Values{}, err
	}
	return v, nil
}

// Validate rejects unknown surface and source kinds
func (v Values) Validate() error {
	switch v.Surface {
	case "web", "term":
	default:
		return fmt.Errorf("unknown surface %q (want web or term)", v.Surface)
	}
	switch v.Source {
	case "mpris", "mpd":
	default:
		return fmt.Errorf("unknown source %q (want mpris or mpd)", v.Source)
	}
	if v.ArtSize <= 0 {
		return fmt.Errorf("art size must be positive, got %d", v.ArtSize)
	}
	if v.ArtCacheSize <= 0 {
		return fmt.Errorf("art cache size must be positive, got %d", v.ArtCacheSize)
	}
	return nil
}

func readFile(path string, v *Values) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(v *Values) {
	setString := func(key string, dst *string) {
		if s := os.Getenv(key); s != "" {
			*dst = s
		}
	}
	setInt := func(key string, dst *int) {
		if s := os.Getenv(key); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				*dst = n
			}
		}
	}

	setString("ISLAND_SURFACE", &v.Surface)
	setString("ISLAND_ADDR", &v.ListenAddr)
	setString("ISLAND_SOURCE", &v.Source)
	setString("ISLAND_MPD_ADDR", &v.MPDAddr)
	setString("ISLAND_MPD_PASSWORD", &v.MPDPassword)
	setString("ISLAND_LOG_LEVEL", &v.LogLevel)
	setString("ISLAND_LOG_FILE", &v.LogFile)
	setInt("ISLAND_ART_SIZE", &v.ArtSize)
	setInt("ISLAND_ART_CACHE", &v.ArtCacheSize)

	if s := os.Getenv("ISLAND_PLAYERS"); s != "" {
		v.Players = NormalizePlayers(strings.Split(s, ","))
	}

	v.LogFile = expandPath(v.LogFile)
}

// NormalizePlayers trims and lowercases player names, dropping empty ones
func NormalizePlayers(names []string) []string {
	var out []string
	for _, part := range names {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

// expandPath resolves environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// AppConfig holds application configuration
type AppConfig struct {
	logger *zap.Logger
	values Values
}

// NewAppConfig creates a new application configuration instance
func NewAppConfig(logger *zap.Logger, v Values) *AppConfig {
	logger.Info("Configuration loaded",
		zap.String("surface", v.Surface),
		zap.String("addr", v.ListenAddr),
		zap.String("source", v.Source),
		zap.Strings("players", v.Players))

	return &AppConfig{
		logger: logger,
		values: v,
	}
}

// GetSurface returns the surface kind
func (c *AppConfig) GetSurface() string {
	return c.values.Surface
}

// GetListenAddr returns the address of the web surface
func (c *AppConfig) GetListenAddr() string {
	return c.values.ListenAddr
}

// GetSource returns the source kind
func (c *AppConfig) GetSource() string {
	return c.values.Source
}

// GetMPDAddr returns the MPD server address
func (c *AppConfig) GetMPDAddr() string {
	return c.values.MPDAddr
}

// GetMPDPassword returns the MPD password
func (c *AppConfig) GetMPDPassword() string {
	return c.values.MPDPassword
}

// GetPlayers returns the preferred MPRIS players
func (c *AppConfig) GetPlayers() []string {
	return c.values.Players
}

// GetArtSize returns the cover thumbnail edge in px
func (c *AppConfig) GetArtSize() int {
	return c.values.ArtSize
}

// GetArtCacheSize returns the number of cached cover thumbnails
func (c *AppConfig) GetArtCacheSize() int {
	return c.values.ArtCacheSize
}
