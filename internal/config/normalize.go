package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScene()
	c.normalizeExport()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) != "" {
		if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
			return fmt.Errorf("paths.history_db: %w", err)
		}
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeScene() {
	if c.Scene.Dimension == 0 {
		c.Scene.Dimension = defaultDimension
	}
	if c.Scene.ProjectionDistance == 0 {
		c.Scene.ProjectionDistance = defaultProjectionDistance
	}
	for i := range c.Scene.Rotations {
		c.Scene.Rotations[i].Plane = strings.ToUpper(strings.TrimSpace(c.Scene.Rotations[i].Plane))
	}
}

func (c *Config) normalizeExport() {
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	c.Export.Codec = strings.ToLower(strings.TrimSpace(c.Export.Codec))
	c.Export.Mode = strings.ToLower(strings.TrimSpace(c.Export.Mode))
	c.Export.Preset = strings.ToLower(strings.TrimSpace(c.Export.Preset))
	if c.Export.Format == "" {
		c.Export.Format = defaultFormat
	}
	if c.Export.Codec == "" {
		c.Export.Codec = defaultCodec
	}
	if c.Export.Mode == "" {
		c.Export.Mode = defaultMode
	}
	if c.Export.SegmentTargetMB == 0 {
		c.Export.SegmentTargetMB = defaultSegmentTargetMB
	}
}

func (c *Config) normalizeNotifications() {
	if topic, ok := os.LookupEnv("MDXPORT_NTFY_TOPIC"); ok && strings.TrimSpace(topic) != "" {
		c.Notifications.NtfyTopic = strings.TrimSpace(topic)
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
