package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "chatexport",
		Short:         "Parse WhatsApp chat exports into structured chats",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "timezone", "Local", "Time zone of export timestamps (IANA name, Local or UTC)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text/json)")
	rootCmd.PersistentFlags().StringVar(&opts.stdinName, "name", "chat", "Chat name when the export is read from stdin (path -)")

	rootCmd.AddCommand(processCmd(opts))
	rootCmd.AddCommand(bundleCmd(opts))
	rootCmd.AddCommand(showCmd(opts))
	rootCmd.AddCommand(xlsxCmd(opts))
	rootCmd.AddCommand(statsCmd(opts))
	rootCmd.AddCommand(searchCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
