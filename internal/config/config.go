package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               int           `envconfig:"PORT" default:"8080"`
	AssetDir           string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	SessionSecret      string        `envconfig:"SESSION_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins     string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	ExportMaxScale     float64       `envconfig:"EXPORT_MAX_SCALE" default:"3"`
	ExportDefaultScale float64       `envconfig:"EXPORT_DEFAULT_SCALE" default:"2"`
	ExportMaxPixels    int           `envconfig:"EXPORT_MAX_PIXELS" default:"40000000"`
	TemplateFile       string        `envconfig:"TEMPLATE_FILE"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginHosts returns the origins without their scheme, the form the
// websocket origin check expects.
func (c *Config) OriginHosts() []string {
	origins := c.Origins()
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if _, rest, ok := strings.Cut(o, "://"); ok {
			o = rest
		}
		hosts = append(hosts, o)
	}
	return hosts
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
