package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gluepot/internal/glue"
	"github.com/roach88/gluepot/internal/harness"
	"github.com/roach88/gluepot/internal/snippet"
	"github.com/roach88/gluepot/internal/trace"
)

// NewSnippetsCommand creates the snippets command.
func NewSnippetsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippets <scenario-file>",
		Short: "Generate step definition snippets for undefined steps",
		Long: `Run a scenario file's steps against its declared glue and print
ready-to-paste step definition skeletons for every step that resolved to
nothing.

Exit codes:
  0 - success (even when no steps are undefined)
  2 - command error (invalid scenario, broken glue configuration)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnippets(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSnippets(opts *RootOptions, file string, cmd *cobra.Command) error {
	s, err := harness.LoadScenario(file)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid scenario", err)
	}

	result, err := harness.New(harness.WithLogger(opts.Logger())).Run(context.Background(), s)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	var undefined []string
	for _, e := range result.Events {
		if e.Type == string(trace.EventResolution) && e.Outcome == glue.NoMatch.String() {
			undefined = append(undefined, e.Step)
		}
	}
	if len(undefined) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No undefined steps.")
		return nil
	}

	// Re-derive the registered parameter types for snippet generation.
	types, err := harness.ParameterTypesFor(s.Glue)
	if err != nil {
		return WrapExitError(ExitCommandError, "broken glue configuration", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), snippet.Render(undefined, types))
	return nil
}
