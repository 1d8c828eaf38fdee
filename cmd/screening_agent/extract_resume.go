package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logger"
)

var extractResumePath string

var extractResumeCmd = &cobra.Command{
	Use:   "extract-resume",
	Short: "Extract structured candidate fields from one resume",
	Long:  "Reads a resume file, extracts its text, and prints the structured candidate record as JSON. Useful for inspecting what the scorer sees.",
	RunE:  runExtractResume,
}

func init() {
	extractResumeCmd.Flags().StringVar(&extractResumePath, "file", "", "Path to a resume (.pdf, .docx or .txt)")
	_ = extractResumeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractResumeCmd)
}

func runExtractResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var tika *extraction.TikaExtractor
	if cfg.TikaURL != "" {
		tika = extraction.NewTikaExtractor(cfg.TikaURL)
	}
	text, err := extraction.NewFileExtractor(tika).Extract(cmd.Context(), extractResumePath)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	client, err := llm.NewFallbackClient(cmd.Context(), llm.ConfigFromEnv(), logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = client.Close() }()

	record, err := extraction.ExtractFields(cmd.Context(), client, text)
	if err != nil {
		return fmt.Errorf("failed to extract candidate fields: %w", err)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
