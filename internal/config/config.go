package config

import (
	"cmp"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/rkulik/fractal/internal/logging"
	"github.com/rkulik/fractal/pkg/serializer"
)

// DefaultRecursionLimit bounds the depth of dotted include paths.
const DefaultRecursionLimit = 10

// Root is the top-level configuration structure used by the fractal command
// and by callers that build a manager from a file.
type Root struct {
	// Serializer names the envelope format, see the serializer package.
	Serializer     string   `json:"serializer,omitempty" enum:"data,array"`
	RecursionLimit int      `json:"recursion_limit,omitempty" minimum:"1"`
	Logging        *Logging `json:"logging,omitempty"`
	Output         *Output  `json:"output,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

type Logging struct {
	Level  string `json:"level,omitempty" enum:"debug,info,warn,error"`
	Format string `json:"format,omitempty" enum:"text,json"`

	_ struct{} `additionalProperties:"false"`
}

type Output struct {
	Format string `json:"format,omitempty" enum:"json,yaml,table"`
	Pretty bool   `json:"pretty,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// Default returns the configuration used when no file is given.
func Default() *Root {
	r := &Root{}
	r.setDefaults()
	return r
}

func (r *Root) setDefaults() {
	r.Serializer = cmp.Or(r.Serializer, serializer.NameDataArray)
	r.RecursionLimit = cmp.Or(r.RecursionLimit, DefaultRecursionLimit)
	if r.Logging == nil {
		r.Logging = &Logging{}
	}
	r.Logging.Level = cmp.Or(r.Logging.Level, "info")
	r.Logging.Format = cmp.Or(r.Logging.Format, "text")
	if r.Output == nil {
		r.Output = &Output{}
	}
	r.Output.Format = cmp.Or(r.Output.Format, "json")
}

// LoggerConfig converts the logging section into a logger configuration.
func (r *Root) LoggerConfig() (logging.Config, error) {
	lvl, err := logging.ParseLevel(r.Logging.Level)
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{Level: lvl, Format: r.Logging.Format}, nil
}

// SerializerImpl returns the configured serializer.
func (r *Root) SerializerImpl() (serializer.Serializer, error) {
	return serializer.ByName(r.Serializer)
}

func Validate(data []byte) error {
	var config any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	// An empty document is a valid, empty configuration.
	if config == nil {
		return nil
	}

	return rootSchema.Validate(config)
}

func ParseFile(filename string) (*Root, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	return Parse(bs)
}

// Parse validates and decodes a YAML (or JSON) configuration document.
// Environment overrides and defaults are applied to the result.
func Parse(bs []byte) (*Root, error) {
	if err := Validate(bs); err != nil {
		return nil, err
	}

	var root Root
	if err := yaml.Unmarshal(bs, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&root); err != nil {
		return nil, err
	}

	root.setDefaults()
	return &root, nil
}

// Load merges the given configuration files (or directories of files) in
// order and parses the result. Without files, only environment overrides
// and defaults apply.
func Load(files []string) (*Root, error) {
	if len(files) == 0 {
		return Parse(nil)
	}

	bs, err := Merge(files, false)
	if err != nil {
		return nil, err
	}
	return Parse(bs)
}
