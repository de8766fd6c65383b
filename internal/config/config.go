package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"gopkg.in/yaml.v3"

	"github.com/pulumi/json-equals/internal/compare"
)

// ErrInvalidConfig wraps every validation failure of a loaded config.
var ErrInvalidConfig = errors.New("invalid config")

// Output formats understood by the CLI.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatSummary = "summary"
)

// Config is the on-disk configuration of a comparison run.
type Config struct {
	// Ignore lists path patterns whose subtrees are skipped.
	Ignore []string `yaml:"ignore" validate:"dive,pathpattern"`
	// Prune lists structured prune predicates.
	Prune []PruneRule `yaml:"prune" validate:"dive"`
	// PruneKeys holds predicates in "pattern:field.path" form mapped to the
	// expected value.
	PruneKeys       map[string]string `yaml:"prune_keys" validate:"dive,keys,prunekey,endkeys"`
	SkipEmptyArrays bool              `yaml:"skip_empty_arrays"`
	Output          OutputConfig      `yaml:"output"`
}

// PruneRule drops array elements at Path whose Field renders to Value.
type PruneRule struct {
	Path  string `yaml:"path" validate:"required,pathpattern"`
	Field string `yaml:"field" validate:"required"`
	Value string `yaml:"value"`
}

// OutputConfig controls how reports are printed.
type OutputConfig struct {
	Format        string `yaml:"format" validate:"oneof=text json summary"`
	MaxChanges    int    `yaml:"max_changes" validate:"gte=-1"`
	ShowSuccesses bool   `yaml:"show_successes"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Ignore:    []string{},
		Prune:     []PruneRule{},
		PruneKeys: map[string]string{},
		Output: OutputConfig{
			Format:     FormatText,
			MaxChanges: 500,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in dir and its parents. It
// returns "" when none exists.
func FindConfigFile(dir string) string {
	configNames := []string{".json-equals.yaml", ".json-equals.yml"}

	currentDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("pathpattern", validatePathPattern)
	contract.AssertNoErrorf(err, "registering the pathpattern validation")
	err = v.RegisterValidation("prunekey", validatePruneKey)
	contract.AssertNoErrorf(err, "registering the prunekey validation")
	return v
}

func validatePathPattern(fl validator.FieldLevel) bool {
	return compare.ValidPattern(fl.Field().String())
}

func validatePruneKey(fl validator.FieldLevel) bool {
	p := compare.ParsePrunePredicate(fl.Field().String(), "")
	return !p.Malformed() && compare.ValidPattern(p.Pattern)
}

// Validate checks every pattern and option of c.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	errs := []error{ErrInvalidConfig}
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: %q fails %q", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return errors.Join(errs...)
}

// Predicates returns the prune predicates of both config forms, structured
// rules first.
func (c *Config) Predicates() []compare.PrunePredicate {
	predicates := make([]compare.PrunePredicate, 0, len(c.Prune)+len(c.PruneKeys))
	for _, r := range c.Prune {
		predicates = append(predicates, compare.PrunePredicate{Pattern: r.Path, Field: r.Field, Value: r.Value})
	}
	return append(predicates, compare.PrunePredicatesFromMap(c.PruneKeys)...)
}

// Options converts c into comparison options.
func (c *Config) Options() compare.Options {
	return compare.Options{
		Ignore:          append([]string(nil), c.Ignore...),
		Prune:           c.Predicates(),
		SkipEmptyArrays: c.SkipEmptyArrays,
	}
}

// LoadConfigWithCLI loads config from configPath, or from the nearest
// discovered file when configPath is empty, and appends the CLI patterns.
func LoadConfigWithCLI(configPath string, ignore []string, pruneKeys map[string]string) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile(".")
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Ignore = append(cfg.Ignore, ignore...)
	if cfg.PruneKeys == nil {
		cfg.PruneKeys = map[string]string{}
	}
	for k, v := range pruneKeys {
		cfg.PruneKeys[k] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
