// Package config holds the storage layout the tool reads and writes, injected
// at startup instead of living in package-level constants.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/miniapp-config/internal/apperr"
)

// Environment tags.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Location is one environment's document: its object key and the public URL it is read from.
// An empty URL is derived from the bucket, region and key.
type Location struct {
	Key string `yaml:"key"`
	URL string `yaml:"url"`
}

// Config holds bucket-level settings and the two environment locations.
type Config struct {
	Bucket string   `yaml:"bucket"`
	Region string   `yaml:"region"`
	Dev    Location `yaml:"dev"`
	Prod   Location `yaml:"prod"`
	Log    struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Target is a resolved environment: where to read from and where to write to.
type Target struct {
	Environment string
	Bucket      string
	Key         string
	SourceURL   string
}

// Destination returns the s3:// URI the document is written to.
func (t Target) Destination() string {
	return "s3://" + t.Bucket + "/" + t.Key
}

// Default returns the production layout of the mini-app list documents.
func Default() Config {
	cfg := Config{
		Bucket: "vsa-bucket-public-new",
		Region: "us-east-1",
		Dev:    Location{Key: "monster/miniapp_list_config_debug.json"},
		Prod:   Location{Key: "monster/miniapp_list_config_prod.json"},
	}
	cfg.Log.Level = "info"
	return cfg
}

// Load builds a Config from defaults, the optional YAML file at path, then
// environment variables. A .env file in the working directory is honoured
// when envFile is empty; a missing .env is not an error.
func Load(path, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("%w: load env file %s: %v", apperr.ErrConfig, envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read config %s: %v", apperr.ErrConfig, path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse config %s: %v", apperr.ErrConfig, path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from MINIAPP_* variables and LOG_LEVEL.
func (c *Config) applyEnv() {
	setFromEnv(&c.Bucket, "MINIAPP_BUCKET")
	setFromEnv(&c.Region, "MINIAPP_REGION")
	setFromEnv(&c.Dev.Key, "MINIAPP_DEV_KEY")
	setFromEnv(&c.Dev.URL, "MINIAPP_DEV_URL")
	setFromEnv(&c.Prod.Key, "MINIAPP_PROD_KEY")
	setFromEnv(&c.Prod.URL, "MINIAPP_PROD_URL")
	setFromEnv(&c.Log.Level, "LOG_LEVEL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that every location can be resolved.
func (c Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is empty"))
	}
	if c.Dev.Key == "" {
		errs = append(errs, errors.New("dev.key is empty"))
	}
	if c.Prod.Key == "" {
		errs = append(errs, errors.New("prod.key is empty"))
	}
	if (c.Dev.URL == "" || c.Prod.URL == "") && c.Region == "" {
		errs = append(errs, errors.New("region is required to derive public URLs"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", apperr.ErrConfig, errors.Join(errs...))
	}
	return nil
}

// Resolve maps an environment tag to its Target. An empty tag means dev; any
// tag other than dev or prod is an apperr.ErrConfig.
func (c Config) Resolve(env string) (Target, error) {
	var loc Location
	switch env {
	case "", EnvDev:
		env, loc = EnvDev, c.Dev
	case EnvProd:
		loc = c.Prod
	default:
		return Target{}, fmt.Errorf("%w: environment must be %q or %q, got %q", apperr.ErrConfig, EnvDev, EnvProd, env)
	}
	url := loc.URL
	if url == "" {
		url = PublicURL(c.Bucket, c.Region, loc.Key)
	}
	return Target{Environment: env, Bucket: c.Bucket, Key: loc.Key, SourceURL: url}, nil
}

// PublicURL is the virtual-hosted-style HTTPS address of an object.
func PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, strings.TrimPrefix(key, "/"))
}
