// Package config loads the reconciliation run configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"generic-matcher/internal/domain"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("match_type", func(fl validator.FieldLevel) bool {
		_, err := domain.ParsePersonMatchType(fl.Field().String())
		return err == nil
	})
	return v
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Config is a reconciliation run configuration.
type Config struct {
	// Strict fails the run on the first ambiguous pairing instead of flagging it.
	Strict bool `yaml:"strict"`
	// Parallelism bounds candidate discovery goroutines. 0 and 1 run sequentially.
	Parallelism int       `yaml:"parallelism" validate:"gte=0,lte=256"`
	Log         LogConfig `yaml:"log"`
	// Tiers lists match type names, highest priority first.
	Tiers [][]string `yaml:"tiers" validate:"required,min=1,dive,min=1,dive,match_type"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Parallelism: 4,
		Log:         LogConfig{Level: "info"},
		Tiers: [][]string{
			{"ssn"},
			{"name", "date_of_birth"},
			{"email"},
			{"phone", "date_of_birth"},
		},
	}
}

// Load reads the YAML file at path over Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and match type names.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' with value '%v'", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// PersonTiers resolves the configured tiers to match types.
func (c Config) PersonTiers() ([][]domain.PersonMatchType, error) {
	return domain.ParsePersonTiers(c.Tiers)
}

// ParseTiers parses the command-line tier syntax: tiers separated by ';' and
// match types within a tier by ','. "ssn;name,date_of_birth" yields two tiers.
func ParseTiers(s string) [][]string {
	var tiers [][]string
	for _, group := range strings.Split(s, ";") {
		var tier []string
		for _, name := range strings.Split(group, ",") {
			if name = strings.TrimSpace(name); name != "" {
				tier = append(tier, name)
			}
		}
		if len(tier) > 0 {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}
