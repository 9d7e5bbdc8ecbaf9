package main

import (
	"encoding/json"
	"io"
	"os"

	"chatter-io/internal/adapters/exporter"
	"chatter-io/internal/core/services"
	"chatter-io/internal/pkg/term"

	"github.com/spf13/cobra"
)

func searchCmd(opts *globalOptions) *cobra.Command {
	var format string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <path> <query>",
		Short: "Find messages containing text (case-insensitive), newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := useTable(format)
			if err != nil {
				return err
			}

			chats, err := loadChats(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			found := services.NewStatisticsService().Search(chats, args[1])
			if limit > 0 && len(found) > limit {
				found = found[:limit]
			}

			if !table {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(found)
			}
			widths := exporter.FitWidths(term.NewTerminal().Width())
			_, err = io.WriteString(os.Stdout, exporter.RenderTable(exporter.MessageColumns(widths), exporter.MessageRows(found)))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", "Output format (auto/table/json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Max results (0 = no limit)")

	return cmd
}
