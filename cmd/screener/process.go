package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/app"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

func newProcessCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [files...]",
		Short: "Extract and score resumes, printing one outcome per file as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, v, args)
		},
	}

	cmd.Flags().StringP("requirements", "r", "", `job requirements as JSON, e.g. {"skills": ["go", "sql"]}`)
	cmd.Flags().Bool("persist", false, "append successful records to the configured store")

	_ = v.BindPFlag("requirements", cmd.Flags().Lookup("requirements"))
	_ = v.BindPFlag("persist", cmd.Flags().Lookup("persist"))
	_ = v.BindEnv("requirements", "JOB_REQUIREMENTS")

	return cmd
}

func runProcess(cmd *cobra.Command, v *viper.Viper, paths []string) error {
	requirements := v.GetString("requirements")
	if requirements == "" {
		return errors.New("job requirements are required (--requirements or JOB_REQUIREMENTS)")
	}

	cfg, logger, err := setup(v)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var store repositories.CandidateStore
	if v.GetBool("persist") {
		s, closeStore, err := app.OpenStore(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()
		store = s
	}

	docs := make([]models.Document, 0, len(paths))
	for _, path := range paths {
		docs = append(docs, readDocument(path, cfg.Storage.MaxFileSize))
	}

	batch, err := app.New(cfg, logger).Pipeline(store).ProcessBatch(cmd.Context(), docs, []byte(requirements))
	if err != nil {
		return err
	}

	logger.Debug("batch finished", zap.String("batch_id", batch.BatchID.String()), zap.Bool("persisted", store != nil))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(models.UploadResponse{
		Message:   "Files processed successfully",
		BatchID:   batch.BatchID.String(),
		Processed: batch.Processed(),
		Failed:    batch.Failed(),
		Data:      batch.Outcomes(),
	})
}

// readDocument loads one file from disk. Read problems fail only that file.
func readDocument(path string, maxFileSize int64) models.Document {
	filename := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return models.Document{Filename: filename, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	if info.Size() > maxFileSize {
		return models.Document{
			Filename: filename,
			Err:      fmt.Errorf("%w: %s is %d bytes, max %d", models.ErrFileTooLarge, filename, info.Size(), maxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{Filename: filename, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}

	doc, _ := models.NewDocument(filename, data)
	return doc
}
