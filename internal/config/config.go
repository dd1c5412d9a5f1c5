// Package config loads axonbind settings from axonbind.yaml, AXONBIND_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/hosts"
	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/output"
)

const (
	EnvPrefix = "AXONBIND"
	FileName  = "axonbind"
)

// Config is the complete axonbind configuration
type Config struct {
	Host                     string   `mapstructure:"host"`
	ConventionB              bool     `mapstructure:"convention_b"`
	AddMissingPathParameters bool     `mapstructure:"add_missing_path_parameters"`
	EnumHandling             string   `mapstructure:"enum_handling"`
	PropertyNameHandling     string   `mapstructure:"property_name_handling"`
	RawDocumentTypes         []string `mapstructure:"raw_document_types"`
	Format                   string   `mapstructure:"format"`
	Module                   string   `mapstructure:"module"`
	Tags                     []string `mapstructure:"tags"`
	Addr                     string   `mapstructure:"addr"`
	Title                    string   `mapstructure:"title"`
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"host":                        "host",
	"convention-b":                "convention_b",
	"add-missing-path-parameters": "add_missing_path_parameters",
	"enum-handling":               "enum_handling",
	"property-name-handling":      "property_name_handling",
	"raw-document-types":          "raw_document_types",
	"format":                      "format",
	"module":                      "module",
	"tags":                        "tags",
	"addr":                        "addr",
	"title":                       "title",
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	settings := models.DefaultSettings()
	return &Config{
		Host:                 "echo",
		EnumHandling:         string(settings.EnumHandling),
		PropertyNameHandling: string(settings.PropertyNameHandling),
		RawDocumentTypes:     settings.RawDocumentTypes,
		Format:               string(output.FormatJSON),
		Module:               ".",
		Addr:                 ":8080",
	}
}

// Loader reads configuration through viper
type Loader struct {
	v    *viper.Viper
	file string
}

// NewLoader creates a loader with defaults and environment binding in place
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("host", def.Host)
	v.SetDefault("convention_b", def.ConventionB)
	v.SetDefault("add_missing_path_parameters", def.AddMissingPathParameters)
	v.SetDefault("enum_handling", def.EnumHandling)
	v.SetDefault("property_name_handling", def.PropertyNameHandling)
	v.SetDefault("raw_document_types", def.RawDocumentTypes)
	v.SetDefault("format", def.Format)
	v.SetDefault("module", def.Module)
	v.SetDefault("tags", []string{})
	v.SetDefault("addr", def.Addr)
	v.SetDefault("title", def.Title)

	return &Loader{v: v}
}

// SetConfigFile uses an explicit configuration file, which must exist
func (l *Loader) SetConfigFile(path string) {
	l.file = path
}

// BindFlags binds every known flag present in flags
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return errors.WrapConfigurationError("--"+name, "bind", err)
		}
	}
	return nil
}

// Load reads the configuration file, if any, and decodes the merged result
func (l *Loader) Load() (*Config, error) {
	if l.file != "" {
		l.v.SetConfigFile(l.file)
	} else {
		l.v.SetConfigName(FileName)
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		optional := l.file == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist))
		if !optional {
			return nil, errors.WrapConfigurationError(l.v.ConfigFileUsed(), "read", err)
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.v.Unmarshal(cfg, hook); err != nil {
		return nil, errors.WrapConfigurationError(FileName, "decode", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the configuration file that was read, if any
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (c *Config) normalize() {
	c.Host = strings.ToLower(strings.TrimSpace(c.Host))
	c.EnumHandling = strings.ToLower(strings.TrimSpace(c.EnumHandling))
	c.PropertyNameHandling = strings.ToLower(strings.TrimSpace(c.PropertyNameHandling))
	c.RawDocumentTypes = compact(c.RawDocumentTypes)
	c.Tags = compact(c.Tags)
}

func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks every enum-like field and reports all problems at once
func (c *Config) Validate() error {
	errs := errors.NewMultipleErrors()

	if _, err := hosts.Lookup(c.Host); err != nil {
		errs.Add(errors.NewValidationError("host", strings.Join(hosts.Names(), ", "), c.Host))
	}

	enums := []string{string(models.EnumHandlingInteger), string(models.EnumHandlingString)}
	if !slices.Contains(enums, c.EnumHandling) {
		errs.Add(errors.NewValidationError("enum_handling", strings.Join(enums, ", "), c.EnumHandling))
	}

	naming := []string{
		string(models.PropertyNameDefault),
		string(models.PropertyNameCamel),
		string(models.PropertyNameSnake),
		string(models.PropertyNameField),
	}
	if !slices.Contains(naming, c.PropertyNameHandling) {
		errs.Add(errors.NewValidationError("property_name_handling", strings.Join(naming, ", "), c.PropertyNameHandling))
	}

	if _, err := output.ParseFormat(c.Format); err != nil {
		errs.Add(errors.NewValidationError("format", "json, yaml", c.Format))
	}

	return errs.ErrOrNil()
}

// Settings converts the configuration to resolver settings
func (c *Config) Settings() models.Settings {
	return models.Settings{
		ConventionB:              c.ConventionB,
		AddMissingPathParameters: c.AddMissingPathParameters,
		EnumHandling:             models.EnumHandling(c.EnumHandling),
		PropertyNameHandling:     models.PropertyNameHandling(c.PropertyNameHandling),
		RawDocumentTypes:         slices.Clone(c.RawDocumentTypes),
	}
}

// OutputFormat returns the parsed document format
func (c *Config) OutputFormat() output.Format {
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return output.FormatJSON
	}
	return format
}

// String summarizes the configuration for verbose output
func (c *Config) String() string {
	return fmt.Sprintf("host=%s convention_b=%t add_missing_path_parameters=%t enum_handling=%s property_name_handling=%s format=%s",
		c.Host, c.ConventionB, c.AddMissingPathParameters, c.EnumHandling, c.PropertyNameHandling, c.Format)
}
