package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mdxport/internal/api"
	"mdxport/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent export runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				resp := api.HistoryResponse{Runs: make([]api.HistoryRun, 0, len(runs))}
				for _, run := range runs {
					resp.Runs = append(resp.Runs, api.FromRun(run))
				}
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No export runs recorded")
				return nil
			}

			headers := []string{"Started", "Mode", "Resolution", "Frames", "Status", "Size", "Artifact"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				started := ""
				if !run.StartedAt.IsZero() {
					started = run.StartedAt.Local().Format("2006-01-02 15:04")
				}
				artifact := run.ArtifactPath
				if run.SegmentCount > 0 {
					artifact = fmt.Sprintf("%d segments", run.SegmentCount)
				}
				rows = append(rows, []string{
					started,
					displayMode(run.Mode),
					displayResolution(run.Width, run.Height),
					fmt.Sprintf("%d/%d", run.FramesDone, run.TotalFrames),
					run.Status,
					formatBytes(run.Bytes),
					artifact,
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}
