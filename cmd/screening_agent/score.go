package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/features"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/scoring"
	"github.com/jonathan/resume-screener/internal/workspace"
)

var scoreJobID string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score all unprocessed resumes for a job",
	Long:  "Runs the scoring pipeline for a job: every resume in the job's folder that is not yet in the workbook gets scored against the feature schema, and the workbook is updated in place.",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreJobID, "job-id", "", "Job identifier")
	_ = scoreCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := llm.NewFallbackClient(cmd.Context(), llm.ConfigFromEnv(), logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var tika *extraction.TikaExtractor
	if cfg.TikaURL != "" {
		tika = extraction.NewTikaExtractor(cfg.TikaURL)
	}

	paths := workspace.New(cfg.DataDir)
	orch := scoring.NewOrchestrator(
		paths,
		features.NewStore(paths),
		extraction.NewFileExtractor(tika),
		client,
		logger.Logger,
	)

	result, err := orch.Run(cmd.Context(), scoreJobID)
	if err != nil {
		return fmt.Errorf("scoring run failed: %w", err)
	}

	fmt.Printf("Scored %d, skipped %d, dropped %d\n", len(result.Scored), result.Skipped, len(result.Dropped))
	fmt.Printf("Workbook: %s\n", result.WorkbookPath)
	return nil
}
