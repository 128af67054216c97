package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gluepot/internal/harness"
)

// ValidateResult holds the validation outcome for one file.
type ValidateResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Validate scenario files against the schema",
		Long: `Validate scenario YAML files against the embedded CUE schema without
running them.

Exit codes:
  0 - all files valid
  1 - one or more files invalid`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	results := make([]ValidateResult, 0, len(files))
	invalid := 0
	for _, file := range files {
		vr := ValidateResult{File: file, Valid: true}
		if _, err := harness.LoadScenario(file); err != nil {
			vr.Valid = false
			vr.Error = err.Error()
			invalid++
		}
		results = append(results, vr)
	}

	if opts.Format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		for _, vr := range results {
			if vr.Valid {
				fmt.Fprintf(cmd.OutOrStdout(), "ok    %s\n", vr.File)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "error %s\n      %s\n", vr.File, vr.Error)
			}
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed validation", invalid))
	}
	return nil
}
