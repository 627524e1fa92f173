package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mdxport/internal/config"
	"mdxport/internal/export"
	"mdxport/internal/history"
	"mdxport/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check export readiness and show the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			failures := 0
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Defaults", colorize) {
				fmt.Fprintln(out, line)
			}
			printExportDefaults(cmd, cfg, colorize)

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Last Run", colorize) {
				fmt.Fprintln(out, line)
			}
			if err := printLastRun(cmd, cfg, colorize); err != nil {
				fmt.Fprintln(out, renderStatusLine("History", statusWarn, err.Error(), colorize))
			}

			if failures > 0 {
				return fmt.Errorf("%d readiness check(s) failed", failures)
			}
			return nil
		},
	}
}

func printExportDefaults(cmd *cobra.Command, cfg *config.Config, colorize bool) {
	out := cmd.OutOrStdout()
	settings, err := export.SettingsFromConfig(cfg)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Settings", statusError, err.Error(), colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, displayMode(string(settings.Mode)), colorize))
	fmt.Fprintln(out, renderStatusLine("Resolution", statusInfo, displayResolution(settings.Width, settings.Height), colorize))
	fmt.Fprintln(out, renderStatusLine("Frame rate", statusInfo, fmt.Sprintf("%g fps", settings.FPS), colorize))
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, fmt.Sprintf("%gs (%d frames)", settings.DurationSeconds, settings.TotalFrames()), colorize))
	fmt.Fprintln(out, renderStatusLine("Encoding", statusInfo,
		fmt.Sprintf("%s / %s @ %d kbps", strings.ToUpper(settings.Format), displayCodec(settings.Codec), settings.BitrateKbps), colorize))
	fmt.Fprintln(out, renderStatusLine("Output directory", statusInfo, settings.OutputDir, colorize))
	fmt.Fprintln(out, renderStatusLine("Notifications", statusInfo, yesNo(cfg.Notifications.NtfyTopic != ""), colorize))
}

func printLastRun(cmd *cobra.Command, cfg *config.Config, colorize bool) error {
	out := cmd.OutOrStdout()
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), 1)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, renderStatusLine("Runs", statusInfo, "none recorded", colorize))
		return nil
	}

	run := runs[0]
	kind := statusInfo
	switch run.Status {
	case "completed":
		kind = statusOK
	case "error":
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Status", kind, run.Status, colorize))
	fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, displayMode(run.Mode), colorize))
	fmt.Fprintln(out, renderStatusLine("Progress", statusInfo,
		fmt.Sprintf("%d/%d frames (%.0f%%)", run.FramesDone, run.TotalFrames, run.Progress*100), colorize))
	if run.ArtifactPath != "" {
		fmt.Fprintln(out, renderStatusLine("Artifact", statusInfo, run.ArtifactPath, colorize))
	}
	if run.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}
	return nil
}
