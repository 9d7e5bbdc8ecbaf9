package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"chatter-io/internal/adapters/source"

	"github.com/spf13/cobra"
)

func bundleCmd(opts *globalOptions) *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "bundle <dir>",
		Short: "Collect raw exports into one JSON bundle without parsing",
		Long: `Scans <dir> for exports and writes {processedAt, totalChats, chats} where every
chat carries its raw text and media catalog. The bundle can be passed back
to any other command instead of the directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			raws, err := loadRaw(cmd.Context(), opts, args[0])
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

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(source.NewBundle(raws, time.Now().UTC())); err != nil {
				return fmt.Errorf("failed to encode bundle: %w", err)
			}
			if output != "-" {
				fmt.Fprintf(os.Stderr, "%d chats bundled into %s\n", len(raws), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "bundle.json", "Output file (- for stdout)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing output file")

	return cmd
}
