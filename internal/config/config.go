package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	StaticDir      string   `yaml:"static_dir"`
	ModelDir       string   `yaml:"model_dir"`
	HistoryDB      string   `yaml:"history_db"`
	LogFile        string   `yaml:"log_file"`
	Reload         bool     `yaml:"reload"`
	ShutdownSecs   int      `yaml:"shutdown_timeout_seconds"`
	MaxRangePoints int      `yaml:"max_range_points"`
	Domain         struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"domain"`
}

func Default() *Config {
	c := &Config{
		Port:           "8080",
		AllowedOrigins: []string{"*"},
		StaticDir:      "static",
		ModelDir:       "model",
		ShutdownSecs:   10,
		MaxRangePoints: 1000,
	}
	c.Domain.Max = 50
	return c
}

func (c *Config) ShutdownTimeout() time.Duration { return time.Duration(c.ShutdownSecs) * time.Second }

// Load layers defaults, the YAML file at path (skipped when empty), a .env file in the working
// directory if one exists, and finally environment variables.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "load .env")
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv() error {
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr("PORT", &c.Port)
	setStr("STATIC_DIR", &c.StaticDir)
	setStr("MODEL_DIR", &c.ModelDir)
	setStr("HISTORY_DB", &c.HistoryDB)
	setStr("LOG_FILE", &c.LogFile)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("MODEL_RELOAD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "MODEL_RELOAD")
		}
		c.Reload = b
	}
	for key, dst := range map[string]*float64{"DOMAIN_MIN": &c.Domain.Min, "DOMAIN_MAX": &c.Domain.Max} {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrap(err, key)
			}
			*dst = f
		}
	}
	if v := os.Getenv("MAX_RANGE_POINTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "MAX_RANGE_POINTS")
		}
		c.MaxRangePoints = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Domain.Max < c.Domain.Min {
		return errors.Newf("domain max %g is below min %g", c.Domain.Max, c.Domain.Min)
	}
	if c.MaxRangePoints < 1 {
		return errors.Newf("max_range_points must be positive, got %d", c.MaxRangePoints)
	}
	if c.ModelDir == "" {
		return errors.New("model_dir is required")
	}
	if c.ShutdownSecs < 0 {
		return errors.Newf("shutdown_timeout_seconds must not be negative, got %d", c.ShutdownSecs)
	}
	return nil
}
