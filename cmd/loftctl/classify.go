package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domain "loftcal/internal/domain/availability"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify REASON...",
		Short: "Show the blocked category of free-text override reasons",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type row struct {
				Reason   string `json:"reason"`
				Category string `json:"category"`
			}
			rows := make([]row, 0, len(args))
			for _, reason := range args {
				rows = append(rows, row{Reason: reason, Category: domain.ClassifyReason(reason).String()})
			}
			if outputJSON {
				return writeJSON(rows)
			}
			writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			fmt.Fprintln(writer, "REASON\tCATEGORY")
			for _, r := range rows {
				fmt.Fprintf(writer, "%s\t%s\n", strings.TrimSpace(r.Reason), r.Category)
			}
			return writer.Flush()
		},
	}
}
