package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation statistics by level",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo()
		if err != nil {
			return fmt.Errorf("init event log: %w", err)
		}

		stats, err := events.GenerationStats(context.Background())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No assessments generated yet.")
			return nil
		}

		fmt.Printf("%-6s  %6s  %9s  %10s\n", "Level", "Runs", "Succeeded", "Avg Time")
		fmt.Println(strings.Repeat("─", 40))

		var totalRuns, totalOK int
		for _, st := range stats {
			fmt.Printf("%-6d  %6d  %9d  %9.1fs\n",
				st.Level, st.Runs, st.Successes, st.AvgElapsed)
			totalRuns += st.Runs
			totalOK += st.Successes
		}

		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-6s  %6d  %9d\n", "TOTAL", totalRuns, totalOK)
		return nil
	},
}
