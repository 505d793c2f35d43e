// Package config provides configuration for the zonelabel CLI.
//
// Config file locations (priority order):
//  1. --config flag
//  2. $ZONELABEL_CONFIG
//  3. ./zonelabel.yaml
//  4. $XDG_CONFIG_HOME/zonelabel/config.yaml or ~/.config/zonelabel/config.yaml
//
// ZONELABEL_* environment variables override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/zonelabel/internal/logger"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the effective CLI configuration
type Config struct {
	Phase         string        `yaml:"phase" validate:"required"`
	Param         string        `yaml:"param" validate:"required"`
	ZoneCategory  string        `yaml:"zone_category" validate:"required"`
	Transaction   string        `yaml:"transaction" validate:"required"`
	Workers       int           `yaml:"workers" validate:"gte=0,lte=1024"`
	Pruning       bool          `yaml:"pruning"`
	ScriptTimeout time.Duration `yaml:"script_timeout" validate:"gte=0"`
	Log           LogConfig     `yaml:"log"`
}

// LogConfig configures internal/logger
type LogConfig struct {
	Level  string `yaml:"level" validate:"loglevel"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Phase:         "Electrical",
		Param:         "SKU",
		ZoneCategory:  "Scope Boxes",
		Transaction:   "Assign Scope Box SKU",
		Pruning:       true,
		ScriptTimeout: 5 * time.Second,
		Log:           LogConfig{Level: "info", Format: "console"},
	}
}

// Load finds and loads the config file, or starts from defaults if none
// is found. Environment overrides are applied and the result validated.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.finish(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes YAML over the defaults, then applies environment
// overrides and validates.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return err
	}
	c.applyDefaults()
	return c.Validate()
}

// applyDefaults fills blank strings left by the file or environment
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Phase == "" {
		c.Phase = d.Phase
	}
	if c.Param == "" {
		c.Param = d.Param
	}
	if c.ZoneCategory == "" {
		c.ZoneCategory = d.ZoneCategory
	}
	if c.Transaction == "" {
		c.Transaction = d.Transaction
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// EnvPrefix prefixes every override variable
const EnvPrefix = "ZONELABEL_"

// applyEnv reads ZONELABEL_* overrides through lookup
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str("PHASE", &c.Phase)
	str("PARAM", &c.Param)
	str("ZONE_CATEGORY", &c.ZoneCategory)
	str("TRANSACTION", &c.Transaction)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	var errs []error
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sWORKERS: %w", EnvPrefix, err))
		} else {
			c.Workers = n
		}
	}
	if v, ok := lookup(EnvPrefix + "PRUNING"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPRUNING: %w", EnvPrefix, err))
		} else {
			c.Pruning = b
		}
	}
	if v, ok := lookup(EnvPrefix + "SCRIPT_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSCRIPT_TIMEOUT: %w", EnvPrefix, err))
		} else {
			c.ScriptTimeout = d
		}
	}
	return errors.Join(errs...)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report yaml key names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("yaml")
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	if err := v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return logger.ValidLevel(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("config: register loglevel validation: %v", err))
	}
	return v
}

// Validate checks field constraints
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LoggerOptions converts the log section for internal/logger
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, Format: c.Log.Format}
}
