package main

import (
	"fmt"
	"os"

	"chatter-io/internal/adapters/exporter"

	"github.com/spf13/cobra"
)

func processCmd(opts *globalOptions) *cobra.Command {
	var output string
	var indent, force bool

	cmd := &cobra.Command{
		Use:   "process <path>",
		Short: "Parse exports and write processedChats.json",
		Long: `Parses every chat found at <path> (a data directory, an export directory,
a .txt export, a .zip archive or a raw bundle) and writes
{processedAt, chats, totalChats, totalMessages} as JSON.`,
		Args: cobra.ExactArgs(1),
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

			if err := exporter.NewJSONExporter(out, indent).Export(chats); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(os.Stderr, "%d chats written to %s\n", len(chats), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "processedChats.json", "Output file (- for stdout)")
	cmd.Flags().BoolVar(&indent, "indent", true, "Indent JSON output")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing output file")

	return cmd
}
