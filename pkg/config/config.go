// Package config loads the YAML configuration shared by the CLI commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveyform/internal/logging"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/questions"
)

// Config is the root of the YAML file.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Questions    QuestionsConfig    `yaml:"questions"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Log          LogConfig          `yaml:"log"`
	Theme        ThemeConfig        `yaml:"theme"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// SessionTTL evicts sessions idle for longer. Zero keeps them forever.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type QuestionsConfig struct {
	URLTemplate string        `yaml:"url_template"`
	Timeout     time.Duration `yaml:"timeout"`
}

type OrchestratorConfig struct {
	RacePolicy string `yaml:"race_policy"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ThemeConfig struct {
	Name       string            `yaml:"name"`
	Variant    string            `yaml:"variant"`
	Tokens     map[string]string `yaml:"tokens"`
	CSSVars    map[string]string `yaml:"css_vars"`
	Stylesheet string            `yaml:"stylesheet"`
}

// MinSessionTTL is the shortest accepted non-zero server.session_ttl.
const MinSessionTTL = time.Second

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			SessionTTL:      30 * time.Minute,
		},
		Questions: QuestionsConfig{
			URLTemplate: questions.DefaultURLTemplate,
			Timeout:     10 * time.Second,
		},
		Orchestrator: OrchestratorConfig{
			RacePolicy: string(orchestrator.PolicyTagged),
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load reads path over Default. An empty path yields the defaults; a path
// that does not exist is an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout < 0 || c.Server.SessionTTL < 0 {
		errs = append(errs, errors.New("server durations must not be negative"))
	}
	if ttl := c.Server.SessionTTL; ttl > 0 && ttl < MinSessionTTL {
		errs = append(errs, fmt.Errorf("server.session_ttl must be 0 or at least %s", MinSessionTTL))
	}
	if !strings.Contains(c.Questions.URLTemplate, questions.TopicPlaceholder) {
		errs = append(errs, fmt.Errorf("questions.url_template must contain %s", questions.TopicPlaceholder))
	}
	if c.Questions.Timeout < 0 {
		errs = append(errs, errors.New("questions.timeout must not be negative"))
	}
	if _, ok := orchestrator.ParseRacePolicy(c.Orchestrator.RacePolicy); !ok {
		errs = append(errs, fmt.Errorf("orchestrator.race_policy %q is not one of %s, %s",
			c.Orchestrator.RacePolicy, orchestrator.PolicyTagged, orchestrator.PolicyLastResolved))
	}
	if _, err := logging.New(c.Log.Level, c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
}

// RacePolicy returns the parsed orchestrator policy.
func (c Config) RacePolicy() orchestrator.RacePolicy {
	policy, _ := orchestrator.ParseRacePolicy(c.Orchestrator.RacePolicy)
	return policy
}

// RendererConfig converts the theme section for the HTML renderer. It
// returns nil when no theme is configured.
func (t ThemeConfig) RendererConfig() *theme.RendererConfig {
	if t.Name == "" && t.Variant == "" && len(t.Tokens) == 0 && len(t.CSSVars) == 0 && t.Stylesheet == "" {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
		Tokens:  copyMap(t.Tokens),
		CSSVars: copyMap(t.CSSVars),
	}
	if stylesheet := t.Stylesheet; stylesheet != "" {
		cfg.AssetURL = func(key string) string {
			if key == "stylesheet" {
				return stylesheet
			}
			return ""
		}
	}
	return cfg
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
