package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Settings is the content of hac.toml
type Settings struct {
	// CollectionsDir overrides where collections are stored
	CollectionsDir string `toml:"collections_dir"`
	// DryRun disables every write to the collections directory
	DryRun         bool          `toml:"dry_run"`
	TickRate       time.Duration `toml:"tick_rate"`
	FrameRate      time.Duration `toml:"frame_rate"`
	HTTPTimeout    time.Duration `toml:"http_timeout"`
	HistoryEnabled bool          `toml:"history_enabled"`
	LogLevel       string        `toml:"log_level"`
	// Theme is the chroma style used to colour response bodies
	Theme string      `toml:"theme"`
	TLS   TLSSettings `toml:"tls"`
}

// TLSSettings configures the HTTP client used for every request
type TLSSettings struct {
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
	CAFile             string `toml:"ca_file"`
	CertFile           string `toml:"cert_file"`
	KeyFile            string `toml:"key_file"`
}

// Default returns the settings used when hac.toml is missing
func Default() Settings {
	return Settings{
		TickRate:       250 * time.Millisecond,
		FrameRate:      time.Second / 30,
		HTTPTimeout:    30 * time.Second,
		HistoryEnabled: true,
		LogLevel:       "info",
		Theme:          "monokai",
	}
}

// Load reads settings from path over the defaults. A missing file is not an
// error.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), &settings)
	if err != nil {
		return settings, fmt.Errorf("invalid hac.toml format: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.Warn("unknown setting ignored", "key", key.String(), "file", path)
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Validate rejects values the application loop cannot run with
func (s Settings) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %s", s.TickRate)
	}
	if s.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %s", s.FrameRate)
	}
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout cannot be negative, got %s", s.HTTPTimeout)
	}
	if (s.TLS.CertFile == "") != (s.TLS.KeyFile == "") {
		return fmt.Errorf("tls cert_file and key_file must be set together")
	}
	switch strings.ToLower(s.LogLevel) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log_level %q", s.LogLevel)
	}
	return nil
}

// Dump writes the settings as TOML, for --config-dump
func Dump(w io.Writer, s Settings) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}
