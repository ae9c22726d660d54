package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mll-dev/litassess/internal/config"
	"github.com/mll-dev/litassess/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect and check the LLM provider",
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the LLM provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		llmCfg := cfg.LLM
		if err := llmCfg.Validate(); err != nil {
			// Fall back to probing the standard key env vars so a bare
			// ANTHROPIC_API_KEY is enough to get going.
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return err
			}
			llmCfg = discovered
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo()
		if err != nil {
			return fmt.Errorf("init event log: %w", err)
		}

		provider, err := llm.NewProvider(context.Background(), llmCfg, events)
		if err != nil {
			return err
		}

		fmt.Printf("Provider: %s\n", llmCfg.Provider)
		fmt.Printf("Model:    %s\n", provider.ModelID())
		fmt.Printf("Timeout:  %s\n", llmCfg.Timeout)
		fmt.Println("Configuration OK.")
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage",
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

		usage, err := events.LLMUsage(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if usage.Requests == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %d\n", "Requests:", usage.Requests)
		fmt.Printf("%-16s  %d\n", "Failures:", usage.Failures)
		fmt.Printf("%-16s  %d\n", "Input tokens:", usage.InputTokens)
		fmt.Printf("%-16s  %d\n", "Output tokens:", usage.OutputTokens)
		if !usage.Since.IsZero() {
			fmt.Printf("%-16s  %s\n", "Since:", usage.Since.Local().Format(time.DateTime))
		}
		fmt.Println(strings.Repeat("─", 32))
		fmt.Printf("%-16s  %d\n", "Total tokens:", usage.InputTokens+usage.OutputTokens)
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmCheckCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
