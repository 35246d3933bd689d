package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in each package directory.
const DefaultFile = ".rowmap.yaml"

// DefaultOutput is the generated file name.
const DefaultOutput = "rowmap_gen.go"

// ErrConfig is wrapped by every configuration failure.
var ErrConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config holds the generator settings of one package directory.
type Config struct {
	// Output is the generated file name, relative to the package directory.
	Output string `yaml:"output" validate:"required,endswith=.go,excludesall=/\\"`
	// Policy is the default error policy of generated MapRow methods.
	Policy string `yaml:"policy" validate:"oneof=propagate skip collect"`
	// Naming is the fallback column naming strategy.
	Naming string `yaml:"naming" validate:"oneof=field snake"`
	// Accessors enables Set<Field> and getter generation.
	Accessors bool `yaml:"accessors"`
	// Stringer enables String() generation.
	Stringer bool `yaml:"stringer"`
	// Equal enables Equal(other) generation.
	Equal bool `yaml:"equal"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output:    DefaultOutput,
		Policy:    "propagate",
		Naming:    "field",
		Accessors: true,
	}
}

// Error describes a rejected configuration.
type Error struct {
	Path   string
	Field  string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Field != "" {
		b.WriteString(": " + e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool { return target == ErrConfig }

// Load reads DefaultFile from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultFile)
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads and validates the file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Reason: "parse", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overrides are command-line values; empty strings leave the config alone.
type Overrides struct {
	Output string
	Policy string
	Naming string
}

// Apply returns a copy of c with o applied, validated.
func (c *Config) Apply(o Overrides) (*Config, error) {
	out := *c
	if o.Output != "" {
		out.Output = o.Output
	}
	if o.Policy != "" {
		out.Policy = o.Policy
	}
	if o.Naming != "" {
		out.Naming = o.Naming
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks every field against its constraints and reports the
// first violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Error{
			Field:  strings.ToLower(fe.Field()),
			Reason: fmt.Sprintf("%q fails %s", fe.Value(), describe(fe)),
		}
	}
	return &Error{Cause: err}
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
