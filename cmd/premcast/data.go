package main

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/dataset"
	"github.com/rgehrsitz/premcast/internal/output"
	"github.com/spf13/cobra"
)

func newDataCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect the historical dataset",
	}
	cmd.AddCommand(newDataSummaryCmd(root))
	return cmd
}

func newDataSummaryCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe what the dataset covers and flag quality issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.loadSettings()
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			summary := dataset.Summarize(ds)
			return emit(cmd, format, false, output.NewSummaryReport(&summary))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, plain, csv, json, html)")
	return cmd
}
