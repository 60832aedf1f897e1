package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Pages   PagesConfig   `yaml:"pages"`
	Theme   ThemeConfig   `yaml:"theme"`
	Views   ViewsConfig   `yaml:"views"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name    string `yaml:"name" default:"Insights"`
	Tagline string `yaml:"tagline" default:"Latest Insights"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

// SourceConfig locates the posts document. URL accepts a file path,
// an http(s) URL, s3://bucket/key or sqlite://path.
type SourceConfig struct {
	URL     string        `yaml:"url" default:"posts.json"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`
	S3      S3Config      `yaml:"s3"`
}

// S3Config holds the non-secret parts of the object store connection.
// Credentials are read from the environment.
type S3Config struct {
	Region   string `yaml:"region" default:"auto"`
	Endpoint string `yaml:"endpoint" default:""`
}

type PagesConfig struct {
	LatestCount      int    `yaml:"latest_count" default:"3"`
	DefaultCriterion string `yaml:"default_criterion" default:"date-desc"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark-theme"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

// ViewsConfig bounds how long an abandoned page view keeps its collection
// and how many page views are kept at once.
type ViewsConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout" default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" default:"1m"`
	MaxOpen       int           `yaml:"max_open" default:"1000"`
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.Source),
		validation.Field(&c.Pages),
		validation.Field(&c.Theme),
		validation.Field(&c.Views),
	)
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.By(isPort)),
	)
}

func (c SourceConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

func (c PagesConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LatestCount, validation.Min(1)),
		validation.Field(&c.DefaultCriterion, validation.In("date-desc", "date-asc", "title-asc", "title-desc")),
	)
}

func (c ThemeConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Default, validation.In(LightTheme, DarkTheme)),
	)
}

func (c ViewsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.IdleTimeout, validation.Required),
		validation.Field(&c.SweepInterval, validation.Required),
		validation.Field(&c.MaxOpen, validation.Required, validation.Min(1)),
	)
}

func isPort(value interface{}) error {
	s, _ := value.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535")
	}
	return nil
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

var AppConfig *Config

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func LoadConfig(path string) error {
	config := Default()

	// Try to read and parse the config file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	AppConfig = config
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if d, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(d))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
