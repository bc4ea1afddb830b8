package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/studiowebux/hac/internal/config"
	"github.com/studiowebux/hac/internal/history"
	"github.com/studiowebux/hac/internal/logging"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded executions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Discard()

		if _, err := loadSettings(); err != nil {
			return err
		}
		manager, err := history.NewManager(config.DatabasePath)
		if err != nil {
			return err
		}
		defer manager.Close()

		if flagHistoryClear {
			if err := manager.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		}

		if flagHistoryStats {
			return printStats(cmd, manager)
		}

		var entries []history.Entry
		if flagHistoryRequest != "" {
			entries, err = manager.LoadForRequest(flagHistoryRequest, flagHistoryLimit)
		} else {
			entries, err = manager.Load(flagHistoryLimit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history")
			return nil
		}
		for _, e := range entries {
			status := fmt.Sprintf("%d", e.Status)
			if e.Error != "" {
				status = "ERR"
			}
			fmt.Fprintf(out, "%-14s %-7s %-4s %8s %8s  %s %s\n",
				humanize.Time(e.Timestamp),
				e.Method,
				status,
				e.Duration,
				humanize.Bytes(uint64(e.ResponseSize)),
				e.RequestName,
				e.URL,
			)
			if e.Error != "" {
				fmt.Fprintf(out, "%15s %s\n", "", e.Error)
			}
		}
		return nil
	},
}

// Flags for history
var (
	flagHistoryLimit   int
	flagHistoryRequest string
	flagHistoryClear   bool
	flagHistoryStats   bool
)

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 50, "Maximum number of entries (0 for all)")
	historyCmd.Flags().StringVar(&flagHistoryRequest, "request", "", "Only show executions of this request id")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every recorded execution")
	historyCmd.Flags().BoolVar(&flagHistoryStats, "stats", false, "Show aggregates per request instead of entries")
}

func printStats(cmd *cobra.Command, manager *history.Manager) error {
	stats, err := manager.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(stats) == 0 {
		fmt.Fprintln(out, "No history")
		return nil
	}
	for _, s := range stats {
		fmt.Fprintf(out, "%-7s %-30s calls=%d ok=%d failed=%d network=%d avg=%s min=%s max=%s received=%s last=%s\n",
			s.Method,
			s.RequestName,
			s.TotalCalls,
			s.SuccessCount,
			s.ErrorCount,
			s.NetworkErrors,
			s.AvgDuration.Round(time.Millisecond),
			s.MinDuration,
			s.MaxDuration,
			humanize.Bytes(uint64(s.TotalRespSize)),
			humanize.Time(s.LastCalled),
		)
	}
	return nil
}
