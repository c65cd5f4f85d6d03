package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/navigation"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "docsite.yaml"

// Config is the site configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	// Navigation replaces the built-in sidebar when non-empty.
	Navigation []navigation.Item `yaml:"navigation,omitempty"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Name string `yaml:"name"`
	// BaseURL prefixes sitemap locations and robots.txt.
	BaseURL string `yaml:"base_url"`
	// CanonicalURL prefixes canonical links, OpenGraph urls and structured data.
	// Defaults to BaseURL.
	CanonicalURL       string `yaml:"canonical_url,omitempty"`
	Title              string `yaml:"title,omitempty"`
	Tagline            string `yaml:"tagline,omitempty"`
	DefaultDescription string `yaml:"default_description,omitempty"`
	OGImage            string `yaml:"og_image,omitempty"`
	DocsOGImage        string `yaml:"docs_og_image,omitempty"`
	Logo               string `yaml:"logo,omitempty"`
	Author             string `yaml:"author,omitempty"`
	Twitter            string `yaml:"twitter,omitempty"`
	Language           string `yaml:"language,omitempty"`
	RepoURL            string `yaml:"repo_url,omitempty"`
}

// ContentConfig locates the documents.
type ContentConfig struct {
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// OutputConfig controls static generation output.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	// Clean removes previous output before a build. Defaults to true when omitted.
	Clean bool `yaml:"clean"`

	cleanSpecified bool
}

func (o *OutputConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain OutputConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*o = OutputConfig(p)
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "clean" {
			o.cleanSpecified = true
		}
	}
	return nil
}

// BuildConfig tunes generation and the daemon.
type BuildConfig struct {
	// Workers bounds concurrent page renders. Zero means runtime.NumCPU().
	Workers int `yaml:"workers"`
	// Schedule triggers periodic rebuilds in daemon mode. Zero disables.
	Schedule time.Duration `yaml:"schedule,omitempty"`
	// Watch rebuilds on content changes in daemon mode.
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	CacheMaxAge time.Duration `yaml:"cache_max_age,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Nav returns the configured navigation, or the built-in one.
func (c *Config) Nav() *navigation.Navigation {
	if len(c.Navigation) == 0 {
		return navigation.Default()
	}
	return navigation.New(c.Navigation)
}

// Load reads, expands, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(configPath)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. ${VAR} references are expanded from
// the environment before decoding.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to unmarshal config")
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns a fully defaulted configuration with no file behind it.
func Defaults() *Config {
	var cfg Config
	_ = applyDefaults(&cfg)
	return &cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.New(derrors.CategoryValidation, derrors.SeverityError,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	example := Config{
		Site: SiteConfig{
			Name:               "OpenMemory",
			BaseURL:            "https://openmemory.cavira.app",
			CanonicalURL:       "https://openmemory.ai",
			Title:              "OpenMemory - Long-term Memory for AI Agents",
			Tagline:            "Production-ready long-term memory for AI agents.",
			DefaultDescription: "Production-ready long-term memory system for AI agents. Multi-sector embeddings, intelligent decay, and graph-based knowledge retrieval. Deploy in minutes.",
			OGImage:            "https://openmemory.ai/og-image.png",
			DocsOGImage:        "https://openmemory.ai/og-docs.png",
			Logo:               "https://openmemory.ai/logo.png",
			Author:             "OpenMemory Team",
			Twitter:            "@openmemory",
			Language:           "en-US",
			RepoURL:            "https://github.com/caviraoss/openmemory",
		},
		Content: ContentConfig{Root: "./content/docs", Extensions: []string{".md", ".mdx"}},
		Output:  OutputConfig{Directory: "./public", Clean: true},
		Build:   BuildConfig{Schedule: time.Hour, Watch: true, Debounce: defaultDebounce},
		Server:  ServerConfig{Addr: defaultAddr, CacheMaxAge: defaultCacheMaxAge},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return derrors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return derrors.OutputError("write config", err).WithContext("path", configPath)
	}
	return nil
}
