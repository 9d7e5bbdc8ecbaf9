package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"chatter-io/internal/adapters/exporter"
	"chatter-io/internal/core/services"
	"chatter-io/internal/domain"

	"github.com/spf13/cobra"
)

func statsCmd(opts *globalOptions) *cobra.Command {
	var format, participant string
	var withMedia bool
	var recent int

	cmd := &cobra.Command{
		Use:   "stats <path>",
		Short: "Print collection-wide statistics",
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

			svc := services.NewStatisticsService()
			if participant != "" {
				chats = svc.ByParticipant(chats, participant)
			}
			if withMedia {
				chats = svc.WithMedia(chats)
			}
			if recent > 0 {
				chats = svc.Recent(chats, recent)
			}
			stats := svc.Compute(chats)

			if !table {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			return writeStats(os.Stdout, chats, stats)
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", "Output format (auto/table/json)")
	cmd.Flags().StringVar(&participant, "participant", "", "Only chats with a participant whose name contains this text")
	cmd.Flags().BoolVar(&withMedia, "media", false, "Only chats with media files")
	cmd.Flags().IntVar(&recent, "recent", 0, "Only the N most recently active chats (0 = all)")

	return cmd
}

func writeStats(w io.Writer, chats []domain.Chat, stats domain.Statistics) error {
	rows := make([][]string, 0, len(chats))
	for _, c := range chats {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.MessageCount), strconv.Itoa(len(c.Participants)), strconv.Itoa(c.MediaFiles.Count())})
	}
	table := exporter.RenderTable([]exporter.Column{
		{Title: "Chat", Width: 30},
		{Title: "Messages", Width: 8},
		{Title: "People", Width: 6},
		{Title: "Media", Width: 5},
	}, rows)
	if _, err := io.WriteString(w, table); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nchats: %d, messages: %d, participants: %d\n", len(chats), stats.TotalMessages, stats.TotalParticipants)
	if stats.DateRange != nil {
		fmt.Fprintf(w, "period: %s .. %s\n", stats.DateRange.Start.Format("2006-01-02"), stats.DateRange.End.Format("2006-01-02"))
	}
	for _, kind := range domain.AllKinds {
		if n := stats.MessageTypes[kind]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", kind, n)
		}
	}
	return nil
}
