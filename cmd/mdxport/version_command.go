package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// appVersion is overridden at release build time via -ldflags.
var appVersion = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mdxport %s (%s/%s)\n", appVersion, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
