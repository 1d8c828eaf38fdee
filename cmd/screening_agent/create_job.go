package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/features"
	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/workspace"
)

var (
	createJobID     string
	createJDFile    string
	createJDURL     string
	createChecklist string
)

var createJobCmd = &cobra.Command{
	Use:   "create-job",
	Short: "Create a screening job from a job description",
	Long:  "Derives the job's scoring rubric from a job description file or posting URL and writes the feature schema document.",
	RunE:  runCreateJob,
}

func init() {
	createJobCmd.Flags().StringVar(&createJobID, "job-id", "", "Job identifier (generated when omitted)")
	createJobCmd.Flags().StringVar(&createJDFile, "jd", "", "Path to a job description text file")
	createJobCmd.Flags().StringVar(&createJDURL, "jd-url", "", "Job posting URL to ingest")
	createJobCmd.Flags().StringVar(&createChecklist, "checklist", "", "Path to a recruiter checklist text file")
	rootCmd.AddCommand(createJobCmd)
}

func runCreateJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if (createJDFile == "") == (createJDURL == "") {
		return fmt.Errorf("exactly one of --jd or --jd-url is required")
	}

	var jd string
	if createJDFile != "" {
		jd, _, err = ingestion.FromFile(createJDFile)
	} else {
		jd, _, err = ingestion.FromURL(cmd.Context(), createJDURL, ingestion.Options{
			UseBrowser: cfg.UseBrowser,
			Log:        logger.Logger,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	var checklist string
	if createChecklist != "" {
		checklist, _, err = ingestion.FromFile(createChecklist)
		if err != nil {
			return fmt.Errorf("failed to load checklist: %w", err)
		}
	}

	jobID := createJobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	client, err := llm.NewFallbackClient(cmd.Context(), llm.ConfigFromEnv(), logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = client.Close() }()

	store := features.NewStore(workspace.New(cfg.DataDir))
	if store.Exists(jobID) {
		return fmt.Errorf("job %s already exists", jobID)
	}

	path, err := features.NewGenerator(client, store, logger.Logger).Generate(cmd.Context(), jobID, jd, checklist)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	schema, err := store.LoadByJobID(jobID)
	if err != nil {
		return fmt.Errorf("failed to load created schema: %w", err)
	}

	fmt.Printf("Created job %s with %d features\n", jobID, len(schema.Features))
	fmt.Printf("Schema: %s\n", path)
	return nil
}
