package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/benchbot"
)

// FileName is the config file looked up in the workspace root.
const FileName = ".benchbot.yaml"

// DefaultEnvPrefix is prepended to upper-cased keys for environment lookup.
const DefaultEnvPrefix = "BENCHBOT_"

// Configuration keys.
const (
	KeyArtifactName   = "artifact_name"
	KeyOutputFile     = "output_file"
	KeyPRNumberFile   = "pr_number_file"
	KeyComparisonFile = "comparison_file"
	KeyCommentMarker  = "comment_marker"
	KeyCommentFooter  = "comment_footer"
	KeyLogLevel       = "log_level"
	KeyAllPages       = "all_pages"
)

// Defaults returns the built-in value of every key.
func Defaults() map[string]string {
	return map[string]string{
		KeyArtifactName:   benchbot.DefaultArtifactName,
		KeyOutputFile:     benchbot.DefaultOutputFile,
		KeyPRNumberFile:   benchbot.DefaultPRNumberFile,
		KeyComparisonFile: benchbot.DefaultComparisonFile,
		KeyCommentMarker:  benchbot.DefaultMarker,
		KeyCommentFooter:  benchbot.DefaultFooter,
		KeyLogLevel:       "info",
		KeyAllPages:       "false",
	}
}

// ResolverConfig configures the resolver.
type ResolverConfig struct {
	// Path is the config file. A missing file is not an error.
	Path string

	// EnvPrefix defaults to DefaultEnvPrefix.
	// With prefix "BENCHBOT_", key "artifact_name" maps to BENCHBOT_ARTIFACT_NAME.
	EnvPrefix string

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// ErrWriter is where warnings are written.
	// Defaults to os.Stderr if nil.
	ErrWriter io.Writer
}

// Resolver handles layered configuration resolution.
type Resolver struct {
	config ResolverConfig

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a new configuration resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.EnvPrefix == "" {
		cfg.EnvPrefix = DefaultEnvPrefix
	}
	if cfg.LookupEnv == nil {
		cfg.LookupEnv = os.LookupEnv
	}
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = os.Stderr
	}
	return &Resolver{config: cfg}
}

// warn adds a warning and prints it.
func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	fmt.Fprintf(r.config.ErrWriter, "Warning: %s\n", msg)
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// Bool parses a boolean value; unset or malformed values are false.
func (c *Resolved) Bool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(c.values[key]))
	return err == nil && b
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	ArtifactName   string
	OutputFile     string
	PRNumberFile   string
	ComparisonFile string
	CommentMarker  string
	CommentFooter  string
	LogLevel       string
	AllPages       bool
}

// Settings returns the typed view.
func (c *Resolved) Settings() Settings {
	return Settings{
		ArtifactName:   c.Get(KeyArtifactName),
		OutputFile:     c.Get(KeyOutputFile),
		PRNumberFile:   c.Get(KeyPRNumberFile),
		ComparisonFile: c.Get(KeyComparisonFile),
		CommentMarker:  c.Get(KeyCommentMarker),
		CommentFooter:  c.Get(KeyCommentFooter),
		LogLevel:       c.Get(KeyLogLevel),
		AllPages:       c.Bool(KeyAllPages),
	}
}

// Resolve builds the final config by merging all sources.
// Priority (highest to lowest): env > file > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	for key, value := range Defaults() {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}
	r.applyFile(cfg)
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithFlags resolves config and applies non-empty flag overrides.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	cfg := r.Resolve()

	for key, value := range flags {
		if value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceFlag
		}
	}

	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved) {
	if r.config.Path == "" {
		return
	}

	data, err := os.ReadFile(r.config.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.warn(fmt.Sprintf("could not read %s: %v", r.config.Path, err))
		}
		return
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", r.config.Path, err))
		return
	}

	keys := make([]string, 0, len(parsed))
	for key := range parsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, known := cfg.values[key]; !known {
			r.warn(fmt.Sprintf("unknown key %q in %s", key, r.config.Path))
			continue
		}
		if strVal := toString(parsed[key]); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = SourceFile
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	for key := range cfg.values {
		envKey := r.config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if value, ok := r.config.LookupEnv(envKey); ok && value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
		}
	}
}

// Path returns the config file path.
func (r *Resolver) Path() string {
	return r.config.Path
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}
