package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
	APIBind   string `toml:"api_bind"`
}

// Scene describes the N-dimensional scene the exporter renders.
type Scene struct {
	Dimension          int        `toml:"dimension"`
	Rotations          []Rotation `toml:"rotations"`
	ProjectionDistance float64    `toml:"projection_distance"`
}

// Rotation binds a rotation plane (e.g. "XY", "ZW") to an angular
// velocity in radians per second of synthetic video time.
type Rotation struct {
	Plane string  `toml:"plane"`
	Speed float64 `toml:"speed"`
}

// Render contains renderer quality settings captured and restored around
// each export.
type Render struct {
	Quality                    string  `toml:"quality"`
	Refinement                 bool    `toml:"refinement"`
	TemporalReprojection       bool    `toml:"temporal_reprojection"`
	DisableReprojectionExport  bool    `toml:"disable_reprojection_on_export"`
	PixelRatio                 float64 `toml:"pixel_ratio"`
	PreviewWidth               int     `toml:"preview_width"`
	PreviewHeight              int     `toml:"preview_height"`
	LineWidth                  int     `toml:"line_width"`
	BackgroundLuminancePercent int     `toml:"background_luminance_percent"`
}

// Export contains the default export settings applied when the CLI does not
// override them per invocation.
type Export struct {
	FPS             float64 `toml:"fps"`
	DurationSeconds float64 `toml:"duration_seconds"`
	BitrateKbps     int     `toml:"bitrate_kbps"`
	Width           int     `toml:"width"`
	Height          int     `toml:"height"`
	Preset          string  `toml:"preset"`
	Format          string  `toml:"format"`
	Codec           string  `toml:"codec"`
	WarmupFrames    int     `toml:"warmup_frames"`
	Mode            string  `toml:"mode"`
	SegmentTargetMB int     `toml:"segment_target_mb"`
	OverlayText     string  `toml:"overlay_text"`
	Crop            *Crop   `toml:"crop"`
	FFmpegBinary    string  `toml:"ffmpeg_binary"`
}

// Crop is an optional output crop region in pixels.
type Crop struct {
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Completion     bool   `toml:"completion"`
	Errors         bool   `toml:"errors"`
}

// Logging controls log output destinations and verbosity.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Scene         Scene         `toml:"scene"`
	Render        Render        `toml:"render"`
	Export        Export        `toml:"export"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mdxport/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mdxport.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories an export run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the configured history database path, defaulting to
// a file under the log directory.
func (c *Config) HistoryDBPath() string {
	if strings.TrimSpace(c.Paths.HistoryDB) != "" {
		return c.Paths.HistoryDB
	}
	return filepath.Join(c.Paths.LogDir, "history.db")
}

// LockFilePath returns the single-instance export lock location.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.LogDir, "mdxport.lock")
}

// FFmpegBinary returns the ffmpeg executable used for encoding.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Export.FFmpegBinary) != "" {
		return c.Export.FFmpegBinary
	}
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
