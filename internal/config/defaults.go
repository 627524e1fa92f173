package config

const (
	defaultOutputDir          = "~/mdxport/exports"
	defaultLogDir             = "~/.local/share/mdxport/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultDimension          = 4
	defaultProjectionDistance = 4.0
	defaultFPS                = 30.0
	defaultDurationSeconds    = 10.0
	defaultBitrateKbps        = 8000
	defaultPreset             = "1080p"
	defaultFormat             = "mp4"
	defaultCodec              = "h264"
	defaultWarmupFrames       = 24
	defaultMode               = "buffered"
	defaultSegmentTargetMB    = 50
	defaultPixelRatio         = 1.0
	defaultLineWidth          = 2
	defaultBackgroundPercent  = 4
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Scene: Scene{
			Dimension: defaultDimension,
			Rotations: []Rotation{
				{Plane: "XY", Speed: 0.6},
				{Plane: "ZW", Speed: 0.4},
			},
			ProjectionDistance: defaultProjectionDistance,
		},
		Render: Render{
			Quality:                    "high",
			Refinement:                 true,
			TemporalReprojection:       true,
			DisableReprojectionExport:  true,
			PixelRatio:                 defaultPixelRatio,
			PreviewWidth:               960,
			PreviewHeight:              540,
			LineWidth:                  defaultLineWidth,
			BackgroundLuminancePercent: defaultBackgroundPercent,
		},
		Export: Export{
			FPS:             defaultFPS,
			DurationSeconds: defaultDurationSeconds,
			BitrateKbps:     defaultBitrateKbps,
			Preset:          defaultPreset,
			Format:          defaultFormat,
			Codec:           defaultCodec,
			WarmupFrames:    defaultWarmupFrames,
			Mode:            defaultMode,
			SegmentTargetMB: defaultSegmentTargetMB,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completion:     true,
			Errors:         true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
