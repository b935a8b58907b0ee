package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/app"
	"alfredoptarigan/resume-screener/internal/repositories"
)

var errNoData = errors.New("no data available")

func newExportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored candidate record to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			return runExport(cmd, v, output)
		},
	}

	cmd.Flags().StringP("output", "o", "resume_data.xlsx", "destination xlsx file")

	return cmd
}

func runExport(cmd *cobra.Command, v *viper.Viper, output string) error {
	cfg, logger, err := setup(v)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, closeStore, err := app.OpenStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	rows, err := store.ReadAll(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errNoData
	}

	if err := repositories.ExportWorkbook(output, rows); err != nil {
		return err
	}

	logger.Info("candidate records exported", zap.String("output", output), zap.Int("rows", len(rows)))
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(rows), output)
	return nil
}
