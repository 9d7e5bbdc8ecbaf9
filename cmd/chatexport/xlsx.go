package main

import (
	"fmt"
	"os"

	"chatter-io/internal/adapters/exporter"

	"github.com/spf13/cobra"
)

func xlsxCmd(opts *globalOptions) *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "xlsx <path>",
		Short: "Write parsed chats into an Excel workbook",
		Long:  `Writes a summary sheet and one sheet of messages per chat.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			chats, err := loadChats(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			out, err := openOutput(output, force)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := out.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := exporter.NewExcelExporter(out).Export(chats); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d chats written to %s\n", len(chats), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "chats.xlsx", "Output file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing output file")

	return cmd
}
