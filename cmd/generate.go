package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/config"
	"github.com/mll-dev/litassess/internal/generator"
	"github.com/mll-dev/litassess/internal/kb"
	"github.com/mll-dev/litassess/internal/llm"
	"github.com/mll-dev/litassess/internal/orchestrator"
	"github.com/mll-dev/litassess/internal/store"
	"github.com/mll-dev/litassess/internal/uploader"
	"github.com/mll-dev/litassess/internal/worker"
)

var generateCmd = &cobra.Command{
	Use:   "generate [request]",
	Short: "Generate assessments for one or more levels",
	Long: "Generate takes a free-form request naming the level(s) and describing the\n" +
		"learner's background, e.g.:\n\n" +
		"  litassess generate \"Level 2 assessment. I'm a software engineer with 5 years of experience.\"\n" +
		"  litassess generate \"Levels 1-4 for a complete beginner\"\n\n" +
		"With no argument the request is read from stdin.",
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request := strings.TrimSpace(strings.Join(args, " "))
		if request == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read request from stdin: %w", err)
			}
			request = strings.TrimSpace(string(data))
		}
		if request == "" {
			return fmt.Errorf("empty request: name at least one level")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
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

		ctx := context.Background()

		orch, err := buildOrchestrator(ctx, cfg, events)
		if err != nil {
			return err
		}

		result, err := orch.Handle(ctx, request)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result)
		return nil
	},
}

// buildOrchestrator wires the full pipeline: provider, per-level retrievers,
// generator, workers, uploader.
func buildOrchestrator(ctx context.Context, cfg config.Config, events store.EventRepo) (*orchestrator.Orchestrator, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, events)
	if err != nil {
		return nil, err
	}
	gen := generator.New(provider, generator.DefaultConfig())

	objStore, err := uploader.NewFSStore(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("open storage root: %w", err)
	}
	up := uploader.New(objStore, cfg.StoragePrefix, uploader.DefaultRetryPolicy())

	runnerFor := func(level int) (orchestrator.LevelRunner, error) {
		ref := cfg.KBRefFor(level)
		if ref == "" {
			return nil, fmt.Errorf("no knowledge base configured for level %d (set LITASSESS_KB_REF or LITASSESS_KB_REF_LEVEL_%d)", level, level)
		}
		retriever, err := kb.NewFSRetriever(ref)
		if err != nil {
			return nil, err
		}
		return worker.New(retriever, gen, cfg.TargetModules, cfg.MinModules), nil
	}

	return orchestrator.New(runnerFor, up, events, cfg.Deadline), nil
}

func printResult(result *assessment.MultiLevelResult) {
	for _, a := range result.Assessments {
		fmt.Printf("Level %d: %d questions across %d modules\n",
			a.Level, a.QuestionCount(), len(a.ModulesCovered))
		if a.Storage != nil {
			fmt.Printf("  structured: %s\n", a.Storage.StructuredURI)
			fmt.Printf("  readable:   %s\n", a.Storage.ReadableURI)
		}
		if a.Metadata != nil {
			fmt.Printf("  %.1fs, %d retrieval queries\n",
				a.Metadata.ElapsedSeconds, a.Metadata.QueryCount)
		}
	}

	for _, f := range result.Failed {
		fmt.Printf("Level %d FAILED during %s: %s\n", f.Level, f.Stage, f.Reason)
	}

	fmt.Printf("\nTotal: %.1fs", result.TotalElapsedSeconds)
	if result.ParallelSpeedupPercent != nil {
		fmt.Printf(" (%.0f%% faster than sequential)", *result.ParallelSpeedupPercent)
	}
	fmt.Println()
}

func init() {
	generateCmd.Flags().Bool("json", false, "Print the full result as JSON")
}
