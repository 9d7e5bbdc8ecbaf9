package main

import (
	"os"

	"chatter-io/internal/adapters/exporter"
	"chatter-io/internal/pkg/term"

	"github.com/spf13/cobra"
)

func showCmd(opts *globalOptions) *cobra.Command {
	var format string
	var messages int

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print parsed chats: participants, period, media and messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := useTable(format)
			if err != nil {
				return err
			}

			chats, err := loadChats(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			if !table {
				return exporter.NewJSONExporter(os.Stdout, true).Export(chats)
			}
			widths := exporter.FitWidths(term.NewTerminal().Width())
			return exporter.NewConsoleExporter(
				exporter.WithWidths(widths),
				exporter.WithMessages(messages),
			).Export(chats)
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", "Output format (auto/table/json)")
	cmd.Flags().IntVarP(&messages, "messages", "n", 10, "Last messages to print per chat (-1 = all, 0 = none)")

	return cmd
}
