package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultBaseURL           = "http://127.0.0.1:8000"
	defaultRequestTimeout    = 30
	defaultMaxEventsPerTick  = 64
	defaultTickIntervalMS    = 100
	defaultMarkdownStyle     = "dark"
	defaultLiveWindowSeconds = 300
	defaultRefreshIntervalMS = 2000
	minimumRefreshIntervalMS = 250
	minimumTickIntervalMS    = 10
	baseURLEnv               = "AGENTVIEW_BASE_URL"
	tokenEnv                 = "AGENTVIEW_TOKEN"
	streamDebugEnv           = "AGENTVIEW_STREAM_DEBUG"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
	Debug     DebugConfig     `toml:"debug"`
	UI        UIConfig        `toml:"ui"`
	Inspector InspectorConfig `toml:"inspector"`
}

type ServerConfig struct {
	BaseURL          string `toml:"base_url"`
	Token            string `toml:"token,omitempty"`
	TokenFile        string `toml:"token_file,omitempty"`
	RefreshTokenFile string `toml:"refresh_token_file,omitempty"`
	RequestTimeout   int    `toml:"request_timeout"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type DebugConfig struct {
	StreamDebug bool `toml:"stream_debug"`
}

type UIConfig struct {
	MaxEventsPerTick int    `toml:"max_events_per_tick"`
	TickIntervalMS   int    `toml:"tick_interval_ms"`
	MarkdownStyle    string `toml:"markdown_style"`
}

type InspectorConfig struct {
	LiveWindowSeconds int `toml:"live_window_seconds"`
	RefreshIntervalMS int `toml:"refresh_interval_ms"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			MaxEventsPerTick: defaultMaxEventsPerTick,
			TickIntervalMS:   defaultTickIntervalMS,
			MarkdownStyle:    defaultMarkdownStyle,
		},
		Inspector: InspectorConfig{
			LiveWindowSeconds: defaultLiveWindowSeconds,
			RefreshIntervalMS: defaultRefreshIntervalMS,
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path over the defaults. A missing or empty file yields
// the defaults.
func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode renders the configuration as TOML. Tokens are masked.
func (c Config) Encode() ([]byte, error) {
	masked := c
	if strings.TrimSpace(masked.Server.Token) != "" {
		masked.Server.Token = "********"
	}
	return toml.Marshal(masked)
}

func (c Config) BaseURL() string {
	if env := strings.TrimSpace(os.Getenv(baseURLEnv)); env != "" {
		return strings.TrimRight(env, "/")
	}
	base := strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if base == "" {
		return defaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base
}

// Token resolves the bearer token from the environment, the inline setting,
// then the token file, in that order. An empty token is not an error.
func (c Config) Token() (string, error) {
	if env := strings.TrimSpace(os.Getenv(tokenEnv)); env != "" {
		return env, nil
	}
	if token := strings.TrimSpace(c.Server.Token); token != "" {
		return token, nil
	}
	path, err := c.TokenFilePath()
	if err != nil {
		return "", err
	}
	return readTokenFile(path)
}

// RefreshToken reads the refresh token saved by the login command. An empty
// token means the client cannot renew an expired access token.
func (c Config) RefreshToken() (string, error) {
	path, err := c.RefreshTokenFilePath()
	if err != nil {
		return "", err
	}
	return readTokenFile(path)
}

// TokenFilePath is the configured token file, or the default one in the
// data directory.
func (c Config) TokenFilePath() (string, error) {
	if strings.TrimSpace(c.Server.TokenFile) == "" {
		return TokenPath()
	}
	return resolveConfigPath(c.Server.TokenFile)
}

func (c Config) RefreshTokenFilePath() (string, error) {
	if strings.TrimSpace(c.Server.RefreshTokenFile) == "" {
		return RefreshTokenPath()
	}
	return resolveConfigPath(c.Server.RefreshTokenFile)
}

// SaveTokens writes the access token and, when non-empty, the refresh token
// to their files with owner-only permissions.
func (c Config) SaveTokens(access, refresh string) error {
	path, err := c.TokenFilePath()
	if err != nil {
		return err
	}
	if err := writeTokenFile(path, access); err != nil {
		return err
	}
	if strings.TrimSpace(refresh) == "" {
		return nil
	}
	path, err = c.RefreshTokenFilePath()
	if err != nil {
		return err
	}
	return writeTokenFile(path, refresh)
}

func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeTokenFile(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func (c Config) RequestTimeout() time.Duration {
	if c.Server.RequestTimeout <= 0 {
		return defaultRequestTimeout * time.Second
	}
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) StreamDebugEnabled() bool {
	if strings.TrimSpace(os.Getenv(streamDebugEnv)) == "1" {
		return true
	}
	return c.Debug.StreamDebug
}

func (c Config) MaxEventsPerTick() int {
	if c.UI.MaxEventsPerTick <= 0 {
		return defaultMaxEventsPerTick
	}
	return c.UI.MaxEventsPerTick
}

func (c Config) TickInterval() time.Duration {
	ms := c.UI.TickIntervalMS
	if ms <= 0 {
		ms = defaultTickIntervalMS
	}
	if ms < minimumTickIntervalMS {
		ms = minimumTickIntervalMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (c Config) MarkdownStyle() string {
	style := strings.TrimSpace(c.UI.MarkdownStyle)
	if style == "" {
		return defaultMarkdownStyle
	}
	return style
}

// LiveWindow is how long after its timestamp the newest non-message tool
// still counts as live in the inspector.
func (c Config) LiveWindow() time.Duration {
	if c.Inspector.LiveWindowSeconds <= 0 {
		return defaultLiveWindowSeconds * time.Second
	}
	return time.Duration(c.Inspector.LiveWindowSeconds) * time.Second
}

func (c Config) RefreshInterval() time.Duration {
	ms := c.Inspector.RefreshIntervalMS
	if ms <= 0 {
		ms = defaultRefreshIntervalMS
	}
	if ms < minimumRefreshIntervalMS {
		ms = minimumRefreshIntervalMS
	}
	return time.Duration(ms) * time.Millisecond
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
