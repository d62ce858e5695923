package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	"agentview/internal/config"

	toml "github.com/pelletier/go-toml/v2"
)

type ConfigCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
}

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
)

type configOutput struct {
	ConfigPath  string                   `json:"config_path,omitempty" toml:"config_path,omitempty"`
	StateDBPath string                   `json:"state_db_path,omitempty" toml:"state_db_path,omitempty"`
	Server      effectiveServerConfig    `json:"server" toml:"server"`
	Logging     effectiveLoggingConfig   `json:"logging" toml:"logging"`
	Debug       effectiveDebugConfig     `json:"debug" toml:"debug"`
	UI          effectiveUIConfig        `json:"ui" toml:"ui"`
	Inspector   effectiveInspectorConfig `json:"inspector" toml:"inspector"`
}

type effectiveServerConfig struct {
	BaseURL          string `json:"base_url" toml:"base_url"`
	TokenConfigured  bool   `json:"token_configured" toml:"token_configured"`
	RefreshToken     bool   `json:"refresh_token_configured" toml:"refresh_token_configured"`
	RequestTimeoutMS int64  `json:"request_timeout_ms" toml:"request_timeout_ms"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
}

type effectiveDebugConfig struct {
	StreamDebug bool `json:"stream_debug" toml:"stream_debug"`
}

type effectiveUIConfig struct {
	MaxEventsPerTick int    `json:"max_events_per_tick" toml:"max_events_per_tick"`
	TickIntervalMS   int64  `json:"tick_interval_ms" toml:"tick_interval_ms"`
	MarkdownStyle    string `json:"markdown_style" toml:"markdown_style"`
}

type effectiveInspectorConfig struct {
	LiveWindowMS      int64 `json:"live_window_ms" toml:"live_window_ms"`
	RefreshIntervalMS int64 `json:"refresh_interval_ms" toml:"refresh_interval_ms"`
}

func NewConfigCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error)) *ConfigCommand {
	return &ConfigCommand{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if !*defaults {
		cfg, err = c.loadConfig()
		if err != nil {
			return err
		}
	}
	return writeConfigOutput(c.stdout, resolvedFormat, buildConfigOutput(cfg))
}

func buildConfigOutput(cfg config.Config) configOutput {
	out := configOutput{
		Server: effectiveServerConfig{
			BaseURL:          cfg.BaseURL(),
			RequestTimeoutMS: cfg.RequestTimeout().Milliseconds(),
		},
		Logging: effectiveLoggingConfig{
			Level: cfg.LogLevel(),
		},
		Debug: effectiveDebugConfig{
			StreamDebug: cfg.StreamDebugEnabled(),
		},
		UI: effectiveUIConfig{
			MaxEventsPerTick: cfg.MaxEventsPerTick(),
			TickIntervalMS:   cfg.TickInterval().Milliseconds(),
			MarkdownStyle:    cfg.MarkdownStyle(),
		},
		Inspector: effectiveInspectorConfig{
			LiveWindowMS:      cfg.LiveWindow().Milliseconds(),
			RefreshIntervalMS: cfg.RefreshInterval().Milliseconds(),
		},
	}
	if token, err := cfg.Token(); err == nil && token != "" {
		out.Server.TokenConfigured = true
	}
	if refresh, err := cfg.RefreshToken(); err == nil && refresh != "" {
		out.Server.RefreshToken = true
	}
	if path, err := config.ConfigPath(); err == nil {
		out.ConfigPath = path
	}
	if path, err := config.StateDBPath(); err == nil {
		out.StateDBPath = path
	}
	return out
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", errors.New("format must be json or toml")
	}
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}
