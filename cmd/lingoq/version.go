package main

import (
	"fmt"
	"runtime"

	"github.com/ZaguanLabs/lingoq"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", lingoq.Name, lingoq.FullVersion())
			if lingoq.BuildDate != "unknown" && lingoq.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", lingoq.BuildDate)
			}
			fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
			return nil
		},
	}
}
