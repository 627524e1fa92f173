package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mdxport/internal/api"
	"mdxport/internal/config"
	"mdxport/internal/export"
	"mdxport/internal/history"
	"mdxport/internal/logging"
	"mdxport/internal/notifications"
	"mdxport/internal/render"
	"mdxport/internal/scene"
)

type exportFlags struct {
	mode            string
	output          string
	fps             float64
	duration        float64
	bitrateKbps     int
	preset          string
	width           int
	height          int
	format          string
	codec           string
	warmupFrames    int
	overlay         string
	crop            string
	segmentTargetMB int
	baseName        string
	noReprojection  bool
	jsonOutput      bool
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the configured scene and encode it to video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runExport(cmd, cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "Output mode: buffered, stream, or segmented")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Destination path for stream mode")
	cmd.Flags().Float64Var(&flags.fps, "fps", 0, "Frames per second")
	cmd.Flags().Float64VarP(&flags.duration, "duration", "d", 0, "Export duration in seconds")
	cmd.Flags().IntVar(&flags.bitrateKbps, "bitrate", 0, "Video bitrate in kbps")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Resolution preset: "+strings.Join(export.PresetNames(), ", "))
	cmd.Flags().IntVar(&flags.width, "width", 0, "Output width in pixels (overrides preset)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Output height in pixels (overrides preset)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Container format: mp4 or webm")
	cmd.Flags().StringVar(&flags.codec, "codec", "", "Video codec")
	cmd.Flags().IntVar(&flags.warmupFrames, "warmup", -1, "Warmup frames rendered before capture starts")
	cmd.Flags().StringVar(&flags.overlay, "overlay", "", "Overlay text burned into each frame")
	cmd.Flags().StringVar(&flags.crop, "crop", "", "Crop region as X,Y,WIDTH,HEIGHT")
	cmd.Flags().IntVar(&flags.segmentTargetMB, "segment-target-mb", 0, "Target segment size in MB for segmented mode")
	cmd.Flags().StringVar(&flags.baseName, "name", "", "Artifact filename stem")
	cmd.Flags().BoolVar(&flags.noReprojection, "no-reprojection", false, "Disable temporal reprojection during the export")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the completion payload as JSON")

	return cmd
}

func runExport(cmd *cobra.Command, cfg *config.Config, flags exportFlags) error {
	applyExportFlags(cmd, cfg, flags)

	settings, err := export.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	if flags.baseName != "" {
		settings.BaseName = flags.baseName
	}
	if flags.noReprojection {
		settings.DisableReprojection = true
	}
	if flags.crop != "" {
		crop, err := parseCropFlag(flags.crop)
		if err != nil {
			return err
		}
		settings.Crop = crop
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	sceneState, err := scene.New(cfg.Scene)
	if err != nil {
		return err
	}
	renderer := render.NewWireframe(sceneState, cfg.Render)

	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	tracker := newHistoryRecorder(store, settings, logger)

	opts := []export.Option{
		export.WithNotifier(notifications.NewService(cfg)),
		export.WithStatusListener(tracker.Observe),
	}
	if settings.Mode == export.ModeStream {
		opts = append(opts, export.WithDestinationPicker(export.StaticPicker{Path: flags.output}))
	}

	sched := export.New(cfg, sceneState, renderer, logger, opts...)

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	server := startStatusServer(cfg, sched, store, logger)
	if server != nil {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	stopSignals := watchInterrupts(sched, cancel)
	defer stopSignals()

	started := time.Now()
	completion, err := sched.Run(runCtx, settings)
	tracker.Flush(sched.Status(), err)
	if err != nil {
		return err
	}
	if completion == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Export cancelled")
		return nil
	}

	if flags.jsonOutput {
		return writeJSON(cmd, api.FromSnapshot(sched.Status()))
	}
	printCompletion(cmd, completion, time.Since(started))
	return nil
}

// applyExportFlags overlays explicitly set flags onto the configured export
// defaults before settings resolution.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config, flags exportFlags) {
	set := cmd.Flags().Changed
	if set("mode") {
		cfg.Export.Mode = flags.mode
	}
	if set("fps") {
		cfg.Export.FPS = flags.fps
	}
	if set("duration") {
		cfg.Export.DurationSeconds = flags.duration
	}
	if set("bitrate") {
		cfg.Export.BitrateKbps = flags.bitrateKbps
	}
	if set("preset") {
		cfg.Export.Preset = flags.preset
		cfg.Export.Width = 0
		cfg.Export.Height = 0
	}
	if set("width") {
		cfg.Export.Width = flags.width
	}
	if set("height") {
		cfg.Export.Height = flags.height
	}
	if set("format") {
		cfg.Export.Format = flags.format
	}
	if set("codec") {
		cfg.Export.Codec = flags.codec
	}
	if set("warmup") {
		cfg.Export.WarmupFrames = flags.warmupFrames
	}
	if set("overlay") {
		cfg.Export.OverlayText = flags.overlay
	}
	if set("segment-target-mb") {
		cfg.Export.SegmentTargetMB = flags.segmentTargetMB
	}
}

// watchInterrupts aborts the run on the first interrupt and cancels outright
// on the second. Returns a stop function for cleanup.
func watchInterrupts(sched *export.Scheduler, cancel context.CancelFunc) func() {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		interrupted := false
		for {
			select {
			case <-signals:
				if interrupted {
					cancel()
					return
				}
				interrupted = true
				sched.Abort()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func startStatusServer(cfg *config.Config, sched *export.Scheduler, store *history.Store, logger *slog.Logger) *api.Server {
	if cfg.Paths.APIBind == "" {
		return nil
	}
	server, err := api.NewServer(api.ServerConfig{
		Bind:      cfg.Paths.APIBind,
		Version:   appVersion,
		Scheduler: sched,
		Store:     store,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("status API failed to bind", logging.String("addr", cfg.Paths.APIBind), logging.Error(err))
		return nil
	}
	go func() {
		if err := server.Serve(); err != nil {
			logger.Error("status API stopped", logging.Error(err))
		}
	}()
	return server
}

func printCompletion(cmd *cobra.Command, completion *export.Completion, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Export complete in %s (%d frames, %s)\n",
		elapsed.Round(time.Second), completion.Frames, formatBytes(completion.Bytes))
	switch {
	case len(completion.SegmentPaths) > 0:
		for _, path := range completion.SegmentPaths {
			fmt.Fprintf(out, "  %s\n", path)
		}
	case completion.ArtifactPath != "":
		fmt.Fprintf(out, "  %s\n", completion.ArtifactPath)
	}
	if completion.PreviewPath != "" {
		fmt.Fprintf(out, "  preview: %s\n", completion.PreviewPath)
	}
}
