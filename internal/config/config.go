// Package config reads and writes bowl.toml, the file that describes a
// template: its name, version, readme and the paths left out of the bundle.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// FileName is the template description file at the root of a template.
const FileName = "bowl.toml"

// DefaultReadme is used when options.readme is not set.
const DefaultReadme = "./bowl.md"

// DefaultVersion is the template version written by Default.
const DefaultVersion = "0.1.0"

// Config key paths within bowl.toml.
const (
	keyName        = "template.name"
	keyVersion     = "template.version"
	keySource      = "template.source"
	keyDescription = "template.description"
	keyIgnore      = "options.ignore"
	keyReadme      = "options.readme"
)

// Errors returned by Load and Validate.
var (
	ErrNotFound     = errors.New("bowl.toml not found")
	ErrNameEmpty    = errors.New("template name must not be empty")
	ErrNameInvalid  = errors.New("template name may not contain path separators, whitespace or control characters")
	ErrVersionEmpty = errors.New("template version must not be empty")
	ErrReadmeEmpty  = errors.New("readme path must not be empty")
	ErrExists       = errors.New("bowl.toml already exists")
)

// Config is the parsed content of bowl.toml.
type Config struct {
	Template Template `mapstructure:"template" toml:"template"`
	Options  Options  `mapstructure:"options" toml:"options"`
}

// Template identifies the template.
type Template struct {
	Name        string `mapstructure:"name" toml:"name"`
	Version     string `mapstructure:"version" toml:"version"`
	Source      string `mapstructure:"source" toml:"source,omitempty"`
	Description string `mapstructure:"description" toml:"description,omitempty"`
}

// Options controls how the template directory is bundled.
type Options struct {
	Ignore []string `mapstructure:"ignore" toml:"ignore"`
	Readme string   `mapstructure:"readme" toml:"readme"`
}

// Default returns the configuration written for a new template.
func Default(name string) Config {
	return Config{
		Template: Template{
			Name:    name,
			Version: DefaultVersion,
		},
		Options: Options{
			Ignore: []string{".git"},
			Readme: DefaultReadme,
		},
	}
}

// Load reads bowl.toml from dir using Viper. A missing file returns
// ErrNotFound. The result is not validated.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w in %s", ErrNotFound, dir)
		}
		return Config{}, fmt.Errorf("stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetDefault(keyReadme, DefaultReadme)
	v.SetDefault(keyIgnore, []string{})
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", FileName, err)
	}

	cfg := Config{
		Template: Template{
			Name:        v.GetString(keyName),
			Version:     v.GetString(keyVersion),
			Source:      v.GetString(keySource),
			Description: v.GetString(keyDescription),
		},
		Options: Options{
			Ignore: v.GetStringSlice(keyIgnore),
			Readme: v.GetString(keyReadme),
		},
	}
	return cfg, nil
}

// Validate checks the fields a bundle needs.
func (c Config) Validate() error {
	if err := ValidateName(c.Template.Name); err != nil {
		return err
	}
	if strings.TrimSpace(c.Template.Version) == "" {
		return ErrVersionEmpty
	}
	if strings.TrimSpace(c.Options.Readme) == "" {
		return ErrReadmeEmpty
	}
	return nil
}

// ValidateName checks that name can be used as a template and cache name.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	for _, r := range name {
		if r == '/' || r == '\\' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q", ErrNameInvalid, name)
		}
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrNameInvalid, name)
	}
	return nil
}

// Write encodes cfg as bowl.toml in dir. It does not replace an existing
// file.
func Write(dir string, cfg Config) error {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w in %s", ErrExists, dir)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", FileName, err)
	}
	return f.Close()
}
