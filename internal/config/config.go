package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/dlsort/internal/env"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Core    Core    `yaml:"core"`
	Exclude Exclude `yaml:"exclude"`
	History History `yaml:"history"`
	Logging Logging `yaml:"logging"`
}

type Core struct {
	DownloadsDir string `yaml:"downloads_dir"`
	PreviewLimit int    `yaml:"preview_limit" validate:"gte=0"`
	Lock         bool   `yaml:"lock"`
	Verbose      bool   `yaml:"verbose"`
}

// Exclude lists files the planner leaves in place
type Exclude struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns" validate:"dive,validRegexp"`
	Globs    []string   `yaml:"globs" validate:"dive,validGlob"`
	Size     SizeConfig `yaml:"size"`
}

type SizeConfig struct {
	Min string `yaml:"min" validate:"omitempty,validSize"`
	Max string `yaml:"max" validate:"omitempty,validSize"`
}

type History struct {
	WithinDays int `yaml:"within_days" validate:"gte=0"`
}

type Logging struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level" validate:"required,oneof=debug info warn error"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize  string `yaml:"max_size" validate:"required,validSize"`
	MaxFiles int    `yaml:"max_files" validate:"gte=1"`
}

type configError struct {
	configPath string
	parser     parser
	err        error
}

type parser struct {
	validate *validator.Validate
}

func (p parser) getDefaultConfigContents() string {
	content, _ := yaml.Marshal(Default())
	return string(content)
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't read the "%s" config file.
		Please try again after creating it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.DLSORT_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (e configError) Unwrap() error {
	return e.err
}

func (p parser) createConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := f.WriteString(p.getDefaultConfigContents()); err != nil {
			return err
		}
	}

	return nil
}

func (p parser) ensureConfigFile() (string, error) {
	path := env.DLSORT_CONFIG_PATH
	if err := p.createConfigFile(path); err != nil {
		return "", configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}
	return path, nil
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) readConfigFile(path string) (Config, error) {
	// Unset keys keep their defaults
	cfg := *Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := p.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return cfg, fmt.Errorf("validation error: Field %s, %v is invalid", verrs[0].Namespace(), verrs[0].Value())
		}
		return cfg, err
	}
	return cfg, nil
}

func initParser() parser {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validRegexp", validateRegexp)
	_ = validate.RegisterValidation("validGlob", validateGlob)

	return parser{validate: validate}
}

// Parse reads the config at path. An empty path means the default location,
// where a config with default values is created when none exists.
func Parse(path string) (Config, error) {
	parser := initParser()

	var err error
	configPath := path
	if configPath == "" {
		configPath, err = parser.ensureConfigFile()
		if err != nil {
			return *Default(), parsingError{err: err}
		}
	}
	slog.Debug("config file found", "config-file", configPath)

	cfg, err := parser.readConfigFile(configPath)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	if cfg.Core.DownloadsDir != "" {
		if cfg.Core.DownloadsDir, err = ExpandPath(cfg.Core.DownloadsDir); err != nil {
			return cfg, parsingError{err: err}
		}
	}

	return cfg, nil
}
