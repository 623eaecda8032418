package main

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/output"
	"github.com/spf13/cobra"
)

// formatterFor resolves a --format value, suggesting the nearest known name.
func formatterFor(name string) (output.Formatter, error) {
	f, ok := output.GetFormatterByName(name)
	if !ok {
		return nil, unknownChoice("output format", name, output.FormatterNames())
	}
	return f, nil
}

func fileExtension(f output.Formatter) string {
	switch f.Name() {
	case "console", "plain":
		return "txt"
	default:
		return f.Name()
	}
}

// emit renders r to stdout, or to a timestamped file when save is set.
func emit(cmd *cobra.Command, format string, save bool, r *output.Report) error {
	f, err := formatterFor(format)
	if err != nil {
		return err
	}
	if save {
		name, err := output.WriteFormatted(f, r, fileExtension(f))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", name)
		return nil
	}
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", r.Kind, err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
